// Package ratelimit throttles requests per caller and limit type
package ratelimit

import (
	"context"
	"time"
)

// Limit types used by the HTTP layer
const (
	TypeCodeRedeem = "code_redeem"
	TypeAPIRequest = "api_request"
)

// LimitKey identifies a specific rate limit counter
type LimitKey struct {
	Type     string // e.g., "code_redeem", "api_request"
	Subject  string // authenticated user id, when known
	RemoteIP string // remote IP for unauthenticated limits
}

// Store handles rate limit state persistence
type Store interface {
	// Increment counts one operation against key and returns the count in
	// the current window and the time until the window resets
	Increment(ctx context.Context, key LimitKey, limit Limit) (int, time.Duration, error)

	// Reset clears a rate limit counter
	Reset(ctx context.Context, key LimitKey) error
}

// Service manages rate limiting for the application
type Service interface {
	// Allow counts an operation and fails with ErrLimitExceeded once the
	// caller is over its limit
	Allow(ctx context.Context, key LimitKey) (*LimitStatus, error)

	// GetLimit returns the configured limit for a key type
	GetLimit(limitType string) Limit

	// RegisterLimit adds or replaces the limit for a key type
	RegisterLimit(limitType string, limit Limit) error

	// Reset clears rate limit counters for a key
	Reset(ctx context.Context, key LimitKey) error

	// RegisterDefaultLimits configures standard rate limits
	RegisterDefaultLimits()
}

// Limit defines the rate limit configuration
type Limit struct {
	// Rate is the number of operations allowed per period
	Rate int

	// Period is the time window for the rate
	Period time.Duration

	// BurstSize allows a short burst over the rate (optional)
	BurstSize int
}

// Max is the highest count allowed within one window
func (l Limit) Max() int {
	return l.Rate + l.BurstSize
}

// LimitStatus describes a caller's position within its window
type LimitStatus struct {
	Limit     Limit
	Remaining int
	Reset     time.Time
}

// Error types for rate limiting
var (
	ErrLimitExceeded = NewError("RATE_LIMITED", "rate limit exceeded")
	ErrStoreError    = NewError("STORE_ERROR", "rate limit store error")
	ErrInvalidLimit  = NewError("INVALID_LIMIT", "invalid rate limit configuration")
	ErrInvalidKey    = NewError("INVALID_KEY", "invalid rate limit key")
)

// Error represents a rate limiting error
type Error struct {
	Code    string
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// NewError creates a new rate limit error
func NewError(code string, message string) Error {
	return Error{
		Code:    code,
		Message: message,
	}
}
