package usecase_test

import (
	"context"

	"github.com/birozsombor4/rest-api-template/internal/domain"
)

// fakeUserStore implements repository.UserStore with per-test function
// fields. Unset fields report not-found.
type fakeUserStore struct {
	create         func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByID       func(ctx context.Context, id int) (*domain.User, error)
	findByUsername func(ctx context.Context, username string) (*domain.User, error)
	findByEmail    func(ctx context.Context, email string) (*domain.User, error)
	update         func(ctx context.Context, user *domain.User) error
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if f.create == nil {
		return user, nil
	}
	return f.create(ctx, user)
}

func (f *fakeUserStore) FindByID(ctx context.Context, id int) (*domain.User, error) {
	if f.findByID == nil {
		return nil, domain.NewError(domain.KindUserNotFound, "")
	}
	return f.findByID(ctx, id)
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if f.findByUsername == nil {
		return nil, domain.NewError(domain.KindUsernameNotFound, username)
	}
	return f.findByUsername(ctx, username)
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.findByEmail == nil {
		return nil, domain.NewError(domain.KindUserNotFound, email)
	}
	return f.findByEmail(ctx, email)
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if f.update == nil {
		return nil
	}
	return f.update(ctx, user)
}

type fakeTokenStore struct {
	create      func(ctx context.Context, token *domain.VerificationToken) (*domain.VerificationToken, error)
	findByToken func(ctx context.Context, raw string) (*domain.VerificationToken, error)
	deleteDead  func(ctx context.Context) (int64, error)
}

func (f *fakeTokenStore) Create(ctx context.Context, token *domain.VerificationToken) (*domain.VerificationToken, error) {
	if f.create == nil {
		return token, nil
	}
	return f.create(ctx, token)
}

func (f *fakeTokenStore) FindByToken(ctx context.Context, raw string) (*domain.VerificationToken, error) {
	if f.findByToken == nil {
		return nil, domain.NewError(domain.KindTokenNotFound, "")
	}
	return f.findByToken(ctx, raw)
}

func (f *fakeTokenStore) DeleteDead(ctx context.Context) (int64, error) {
	if f.deleteDead == nil {
		return 0, nil
	}
	return f.deleteDead(ctx)
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendVerification(_ context.Context, _ *domain.User, token *domain.VerificationToken) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, token.Token)
	return nil
}

// fakeHasher prefixes instead of hashing so tests can assert on the stored
// value.
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (fakeHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return domain.NewError(domain.KindBadCredentials, "")
	}
	return nil
}
