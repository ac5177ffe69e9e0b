package token

import (
	"fmt"
	"time"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed bearer token lifetime: exp is always iat + 10h.
const TTL = 10 * time.Hour

// Claims is the decoded claim set of a bearer token.
type Claims struct {
	Username  string
	UserID    int
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec issues and verifies HMAC-SHA256 signed bearer tokens. The signing
// secret is fixed at construction; one secret, one issuer, no per-call state.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

func New(secret []byte) *Codec {
	return &Codec{
		secret: secret,
		// Expiry is checked by explicit predicates, not at parse time, so a
		// well-formed expired token still decodes cleanly.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Issue signs a token for the principal with claims
// {sub, user_id, iat, exp = iat + TTL}.
func (c *Codec) Issue(p domain.Principal, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":     p.Username,
		"user_id": p.ID,
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(TTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and returns the claim set. Wrong segment
// count, bad base64 and a bad signature all surface as a malformed-token
// error; an unsigned claim set is never partially trusted. A token that
// decodes but carries no subject is not malformed — the middleware treats
// that as a missing identity instead.
func (c *Codec) Decode(raw string) (*Claims, error) {
	tok, err := c.parser.Parse(raw, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.NewError(domain.KindMalformedToken, "")
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.NewError(domain.KindMalformedToken, "")
	}

	out := &Claims{}
	if sub, ok := mc["sub"].(string); ok {
		out.Username = sub
	}
	if id, ok := mc["user_id"].(float64); ok {
		out.UserID = int(id)
	}
	if iat, ok := mc["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mc["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}

func (c *Codec) ExtractUsername(raw string) (string, error) {
	claims, err := c.Decode(raw)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

func (c *Codec) ExtractExpiration(raw string) (time.Time, error) {
	claims, err := c.Decode(raw)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt, nil
}

// IsExpired reports now >= exp.
func (c *Codec) IsExpired(raw string, now time.Time) (bool, error) {
	claims, err := c.Decode(raw)
	if err != nil {
		return false, err
	}
	return !now.Before(claims.ExpiresAt), nil
}

// Validate is a predicate: true iff the token decodes, its subject matches
// expectedUsername and it has not expired. Expiry and subject mismatch are
// false, not errors; only a malformed token errors.
func (c *Codec) Validate(raw, expectedUsername string, now time.Time) (bool, error) {
	claims, err := c.Decode(raw)
	if err != nil {
		return false, err
	}
	if claims.Username != expectedUsername {
		return false, nil
	}
	return now.Before(claims.ExpiresAt), nil
}
