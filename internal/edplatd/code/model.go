// Package code implements single-use access codes and their issuance
package code

import (
	"time"

	"github.com/google/uuid"
	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

// Common errors
var (
	ErrCodeNotFound = werrors.NewError("CODE_NOT_FOUND", "access code not found", "", werrors.ErrNotFound)
	ErrCodeExists   = werrors.NewError("CODE_EXISTS", "access code already exists", "", werrors.ErrConflict)
	ErrCodeUsed     = werrors.NewError("CODE_USED", "access code already used", "", werrors.ErrInvalidInput)
	ErrCodeExpired  = werrors.NewError("CODE_EXPIRED", "access code expired", "", werrors.ErrInvalidInput)
)

// AccessCode is a single-use token redeemable for exactly one activation
type AccessCode struct {
	ID        uuid.UUID
	Code      string     // Opaque random token handed to the customer
	Used      bool       // Flips to true exactly once, when the code backs an activation
	ExpiresAt *time.Time // Nil when codes do not expire
	CreatedAt time.Time
}

// NewAccessCode creates an unused code with a fresh random token. A zero ttl
// produces a code that never expires.
func NewAccessCode(now time.Time, ttl time.Duration) *AccessCode {
	c := &AccessCode{
		ID:        uuid.New(),
		Code:      uuid.NewString(),
		CreatedAt: now,
	}
	if ttl > 0 {
		expiresAt := now.Add(ttl)
		c.ExpiresAt = &expiresAt
	}
	return c
}

// IsExpired reports whether the code's own expiry has passed
func (c *AccessCode) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// CheckRedeemable returns nil if the code can still back an activation
func (c *AccessCode) CheckRedeemable(now time.Time) error {
	if c.Used {
		return ErrCodeUsed
	}
	if c.IsExpired(now) {
		return ErrCodeExpired
	}
	return nil
}
