package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/birozsombor4/rest-api-template/internal/metrics"
	"github.com/birozsombor4/rest-api-template/internal/security"
	"github.com/birozsombor4/rest-api-template/internal/token"
	"github.com/gin-gonic/gin"
)

// PrincipalLookup resolves a token subject to the caller's principal.
type PrincipalLookup interface {
	LookupPrincipal(ctx context.Context, username string) (domain.Principal, error)
}

// tokenCodec is the subset of token.Codec the middleware needs.
type tokenCodec interface {
	Decode(raw string) (*token.Claims, error)
	Validate(raw, expectedUsername string, now time.Time) (bool, error)
}

// Client-facing rejection messages, one per failure mode. These are written
// by the middleware itself; a rejected request never reaches a handler.
var rejectionMessages = map[domain.ErrorKind]string{
	domain.KindInvalidAuthHeader: "Invalid Authorization or missing JWT token.",
	domain.KindMalformedToken:    "Invalid JWT format.",
	domain.KindMissingUsername:   "Username is missing from JWT.",
	domain.KindUsernameNotFound:  "Username not found.",
	domain.KindInvalidToken:      "Expired JWT.",
}

var rejectionReasons = map[domain.ErrorKind]string{
	domain.KindInvalidAuthHeader: "invalid_header",
	domain.KindMalformedToken:    "malformed_token",
	domain.KindMissingUsername:   "missing_username",
	domain.KindUsernameNotFound:  "username_not_found",
	domain.KindInvalidToken:      "expired_token",
}

// Auth enforces the bearer-token protocol on every route except the three
// public ones. On success it installs the security context on the request
// context; on failure it writes a 401 and aborts — no retry, no
// log-and-continue.
func Auth(codec tokenCodec, lookup PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Public routes bypass the whole pipeline, header inspection included.
		switch c.Request.URL.Path {
		case "/register", "/login", "/verify":
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			reject(c, domain.KindInvalidAuthHeader)
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := codec.Decode(raw)
		if err != nil {
			reject(c, domain.KindMalformedToken)
			return
		}

		// A token that decodes but carries no subject means "no identity",
		// not "bad format".
		if claims.Username == "" {
			reject(c, domain.KindMissingUsername)
			return
		}

		principal, err := lookup.LookupPrincipal(c.Request.Context(), claims.Username)
		if err != nil {
			reject(c, domain.KindUsernameNotFound)
			return
		}

		// Subject mismatch is excluded by validating against the resolved
		// principal's own username, so false here is the expiry path.
		ok, err := codec.Validate(raw, principal.Username, time.Now())
		if err != nil || !ok {
			reject(c, domain.KindInvalidToken)
			return
		}

		sc := security.Context{Principal: principal, Authorities: []string{}}
		c.Request = c.Request.WithContext(security.WithContext(c.Request.Context(), sc))
		c.Next()
	}
}

func reject(c *gin.Context, kind domain.ErrorKind) {
	metrics.AuthRejectionsTotal.WithLabelValues(rejectionReasons[kind]).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": rejectionMessages[kind],
	})
}
