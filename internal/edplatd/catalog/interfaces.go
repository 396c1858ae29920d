package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines storage operations for videos. Lookups and mutations go
// through the natural key; FindByID exists only to expand references.
type Repository interface {
	// Create stores a new video, failing with ErrVideoExists on a duplicate key
	Create(ctx context.Context, v *Video) error

	// FindByKey returns the video with the given natural key or ErrVideoNotFound
	FindByKey(ctx context.Context, key Key) (*Video, error)

	// FindByID returns the video with the given surrogate id or ErrVideoNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Video, error)

	// Update replaces the mutable attributes of the video matching v.Key
	Update(ctx context.Context, v *Video) error

	// DeleteByKey removes the video matching key
	DeleteByKey(ctx context.Context, key Key) error

	// List returns every video
	List(ctx context.Context) ([]*Video, error)
}

// Service manages the video catalog
type Service interface {
	// Create catalogs a new video under key
	Create(ctx context.Context, key Key, youtubeCode string) (*Video, error)

	// Update re-points the video under key at a new YouTube code
	Update(ctx context.Context, key Key, youtubeCode string) (*Video, error)

	// Delete removes the video under key
	Delete(ctx context.Context, key Key) error

	// Find resolves a natural key to its video
	Find(ctx context.Context, key Key) (*Video, error)

	// List returns the whole catalog
	List(ctx context.Context) ([]*Video, error)
}
