package usecase

import (
	"context"

	"github.com/birozsombor4/rest-api-template/internal/avatar"
	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/birozsombor4/rest-api-template/internal/repository"
)

// UserUsecase is the thin read/update surface handlers use once a request is
// past validation.
type UserUsecase struct {
	users   repository.UserStore
	avatars *avatar.Store
}

func NewUserUsecase(users repository.UserStore, avatars *avatar.Store) *UserUsecase {
	return &UserUsecase{users: users, avatars: avatars}
}

func (u *UserUsecase) GetByID(ctx context.Context, id int) (*domain.User, error) {
	return u.users.FindByID(ctx, id)
}

func (u *UserUsecase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.users.FindByUsername(ctx, username)
}

func (u *UserUsecase) Update(ctx context.Context, user *domain.User) error {
	return u.users.Update(ctx, user)
}

// LookupPrincipal resolves a token subject to a request principal. This is
// the lookup the authentication middleware runs on every protected request.
func (u *UserUsecase) LookupPrincipal(ctx context.Context, username string) (domain.Principal, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{ID: user.ID, Username: user.Username}, nil
}

// AttachAvatar points the user at a stored avatar file. The file must already
// exist in the store; attaching a missing file is a load failure.
func (u *UserUsecase) AttachAvatar(user *domain.User, filename string) error {
	if !u.avatars.Exists(filename) {
		return domain.NewError(domain.KindFileLoadFailed, filename)
	}
	user.Avatar = filename
	return nil
}
