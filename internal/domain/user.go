package domain

import "time"

// VerificationTokenTTL is how long an emailed verification link stays usable.
const VerificationTokenTTL = 24 * time.Hour

type User struct {
	ID       int
	Username string
	Password string // bcrypt hash once registered; plaintext only transits RegistrationUsecase
	Email    string
	Verified bool
	Avatar   string
}

// Principal is the identity resolved from a bearer token. It lives for the
// duration of a single request and is never persisted.
type Principal struct {
	ID       int
	Username string
}

// VerificationToken proves control of an email address. A replacement token
// supersedes the previous one; superseded rows stay in the table but the
// lifecycle never resolves them back to the user.
type VerificationToken struct {
	ID         int64
	Token      string
	ExpiryDate time.Time
	UserID     int
}

// Live reports whether the token can still verify its owner at the given time.
// Note the sense: true means usable, not expired.
func (t *VerificationToken) Live(now time.Time) bool {
	return now.Before(t.ExpiryDate)
}
