package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) Create(ctx context.Context, token *domain.VerificationToken) (*domain.VerificationToken, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO verification_tokens (token, expiry_date, user_id)
		 VALUES ($1, $2, $3) RETURNING id`,
		token.Token, token.ExpiryDate, token.UserID,
	).Scan(&token.ID)
	if err != nil {
		return nil, fmt.Errorf("insert verification token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) FindByToken(ctx context.Context, raw string) (*domain.VerificationToken, error) {
	var t domain.VerificationToken
	err := s.pool.QueryRow(ctx,
		`SELECT id, token, expiry_date, user_id FROM verification_tokens WHERE token = $1`,
		raw,
	).Scan(&t.ID, &t.Token, &t.ExpiryDate, &t.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.KindTokenNotFound, "")
		}
		return nil, fmt.Errorf("find verification token: %w", err)
	}
	return &t, nil
}

// DeleteDead sweeps tokens that can never verify anyone again: expired rows
// and rows owned by users who already verified.
func (s *TokenStore) DeleteDead(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM verification_tokens vt
		 USING users u
		 WHERE vt.user_id = u.id AND (u.verified OR vt.expiry_date < now())`,
	)
	if err != nil {
		return 0, fmt.Errorf("delete dead verification tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
