package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/birozsombor4/rest-api-template/internal/repository"
	"github.com/google/uuid"
)

// verificationMailer is the subset of the mailer the lifecycle needs.
type verificationMailer interface {
	SendVerification(ctx context.Context, user *domain.User, token *domain.VerificationToken) error
}

// VerificationUsecase owns the verification-token lifecycle: issue at
// registration, look up on the verify link, re-issue when the link expired,
// and flip the user to verified exactly once.
type VerificationUsecase struct {
	users  repository.UserStore
	tokens repository.TokenStore
	mailer verificationMailer
	logger *slog.Logger
}

func NewVerificationUsecase(users repository.UserStore, tokens repository.TokenStore, mailer verificationMailer, logger *slog.Logger) *VerificationUsecase {
	return &VerificationUsecase{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		logger: logger.With("component", "verification_usecase"),
	}
}

// IssueFor creates and persists a fresh token for the user, expiring 24h from
// now. The new token supersedes any earlier one; old rows stay behind and are
// swept by maintenance.
func (u *VerificationUsecase) IssueFor(ctx context.Context, user *domain.User, now time.Time) (*domain.VerificationToken, error) {
	tok := &domain.VerificationToken{
		Token:      uuid.NewString(),
		ExpiryDate: now.Add(domain.VerificationTokenTTL),
		UserID:     user.ID,
	}
	stored, err := u.tokens.Create(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("store verification token: %w", err)
	}
	return stored, nil
}

// Lookup resolves a raw token string to its row.
func (u *VerificationUsecase) Lookup(ctx context.Context, raw string) (*domain.VerificationToken, error) {
	return u.tokens.FindByToken(ctx, raw)
}

// IsLive reports whether the token can still verify its owner: now < expiry.
func (u *VerificationUsecase) IsLive(tok *domain.VerificationToken, now time.Time) bool {
	return tok.Live(now)
}

// Verify marks the user verified and persists the flip. A second call for an
// already-verified user is a hard error, not a no-op.
func (u *VerificationUsecase) Verify(ctx context.Context, user *domain.User) error {
	if user.Verified {
		return domain.NewError(domain.KindAlreadyVerified, user.Username)
	}
	user.Verified = true
	if err := u.users.Update(ctx, user); err != nil {
		return fmt.Errorf("persist verified user: %w", err)
	}
	return nil
}

// Reissue replaces an expired token and re-sends the verification email.
// Used on the verify endpoint when the clicked link had already expired.
func (u *VerificationUsecase) Reissue(ctx context.Context, user *domain.User, now time.Time) (*domain.VerificationToken, error) {
	tok, err := u.IssueFor(ctx, user, now)
	if err != nil {
		return nil, err
	}
	if err := u.mailer.SendVerification(ctx, user, tok); err != nil {
		return nil, fmt.Errorf("resend verification email: %w", err)
	}
	return tok, nil
}
