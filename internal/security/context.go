package security

import (
	"context"

	"github.com/birozsombor4/rest-api-template/internal/domain"
)

type ctxKey struct{}

// Context is the per-request security context. Authorities is always empty in
// this service (there is no roles model) but stays in the shape so handlers
// read identity and authorities from one place.
type Context struct {
	Principal   domain.Principal
	Authorities []string
}

// WithContext returns a copy of ctx carrying the authenticated caller.
func WithContext(ctx context.Context, sc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

// FromContext extracts the security context. ok is false on requests that
// never passed authentication (public routes).
func FromContext(ctx context.Context) (Context, bool) {
	sc, ok := ctx.Value(ctxKey{}).(Context)
	return sc, ok
}
