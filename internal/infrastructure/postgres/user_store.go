package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, username, password, email, verified, avatar`

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password, email, verified, avatar)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		user.Username, user.Password, user.Email, user.Verified, user.Avatar,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id int) (*domain.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.KindUserNotFound, strconv.Itoa(id))
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.KindUsernameNotFound, username)
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.KindUserNotFound, email)
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET username = $2, password = $3, email = $4, verified = $5, avatar = $6
		 WHERE id = $1`,
		user.ID, user.Username, user.Password, user.Email, user.Verified, user.Avatar,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.Verified, &u.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
