// Package identity holds the authenticated principal supplied by the external
// identity provider. The principal is attached to the request context at the
// transport edge and passed explicitly into every service operation below it.
package identity

import "context"

// Principal is the authenticated caller: stable user id, verified email, and
// an optional display name.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

// DisplayName returns the best label for the principal: name, falling back to
// email, falling back to a generic label.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return "Someone"
}

type contextKey struct{ name string }

var principalKey = contextKey{"principal"}

// WithPrincipal returns a context carrying the principal. Only the auth
// middleware should call this.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext returns the principal from ctx and true if set; otherwise a
// zero Principal and false.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
