package repository

import (
	"context"

	"github.com/birozsombor4/rest-api-template/internal/domain"
)

// UserStore is the persistence boundary for users. Uniqueness checks here are
// advisory: two concurrent registrations can both pass FindByUsername before
// either insert commits. The schema's unique indexes are the authority.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type TokenStore interface {
	Create(ctx context.Context, token *domain.VerificationToken) (*domain.VerificationToken, error)
	FindByToken(ctx context.Context, raw string) (*domain.VerificationToken, error)
	// DeleteDead removes expired tokens and tokens owned by already-verified
	// users. Run from maintenance, never from the request path.
	DeleteDead(ctx context.Context) (int64, error)
}
