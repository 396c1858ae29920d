// Package auth verifies bearer tokens issued by the identity provider and
// carries the resulting principal through request contexts. Token issuance
// lives outside this service.
package auth

import (
	"context"

	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

// Role gates administrative operations
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the principal may perform administrative operations
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

var (
	// ErrMissingToken indicates a request without a bearer token
	ErrMissingToken = werrors.NewError("MISSING_TOKEN", "authentication required", "", werrors.ErrUnauthorized)

	// ErrInvalidToken indicates a malformed, expired or wrongly signed token
	ErrInvalidToken = werrors.NewError("INVALID_TOKEN", "invalid or expired token", "", werrors.ErrUnauthorized)

	// ErrInsufficientRole indicates the caller's role does not permit the operation
	ErrInsufficientRole = werrors.NewError("INSUFFICIENT_ROLE", "you do not have permission to perform this action", "", werrors.ErrForbidden)
)

// Verifier turns a bearer token into a principal
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
