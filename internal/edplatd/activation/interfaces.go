package activation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
)

// Repository defines storage operations for activations
type Repository interface {
	// Redeem stores a and marks its code used as one atomic step. Expired
	// activations for the same video and user are removed first. It fails
	// with ErrAlreadyActive when a live activation for the pair exists and
	// with ErrInvalidCode when the code is missing, used or expired at now.
	// On failure nothing is changed.
	Redeem(ctx context.Context, a *Activation, now time.Time) error

	// FindByVideoAndUser returns the stored activation for the pair, live or
	// not, or ErrActivationNotFound
	FindByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*Activation, error)

	// FindByCode returns the activation backed by the code or ErrActivationNotFound
	FindByCode(ctx context.Context, codeID uuid.UUID) (*Activation, error)

	// ListByUser returns every stored activation of the user
	ListByUser(ctx context.Context, userID string) ([]*Activation, error)

	// List returns every stored activation
	List(ctx context.Context) ([]*Activation, error)

	// DeleteByVideoAndUser removes and returns the activation for the pair,
	// or fails with ErrActivationNotFound
	DeleteByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*Activation, error)

	// DeleteExpired removes and returns every activation whose expiry is
	// strictly before now
	DeleteExpired(ctx context.Context, now time.Time) ([]*Activation, error)
}

// Service manages the activation lifecycle
type Service interface {
	// Activate redeems token for the video under key on behalf of userID
	Activate(ctx context.Context, key catalog.Key, userID, token string) (*Detail, error)

	// Deactivate revokes the user's live activation for the video. The code
	// stays used.
	Deactivate(ctx context.Context, key catalog.Key, userID string) (*Activation, error)

	// GetVideo returns the video if the user holds a live activation for it
	GetVideo(ctx context.Context, key catalog.Key, userID string) (*catalog.Video, error)

	// ListMine returns the user's live activations
	ListMine(ctx context.Context, userID string) ([]*Detail, error)

	// ListAll returns every stored activation
	ListAll(ctx context.Context) ([]*Detail, error)

	// Validate reports which user redeemed token and for which video
	Validate(ctx context.Context, token string) (*Detail, error)

	// Sweep removes expired activations and returns how many were removed
	Sweep(ctx context.Context) (int, error)
}
