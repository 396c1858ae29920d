// Package activation implements time-boxed viewing grants: redeeming access
// codes against videos, revoking grants and sweeping expired ones.
package activation

import (
	"time"

	"github.com/google/uuid"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
)

// TTL is how long an activation grants access to its video
const TTL = 7 * 24 * time.Hour

// Activation grants one user access to one video until ExpiresAt
type Activation struct {
	ID          uuid.UUID
	VideoID     uuid.UUID
	UserID      string
	CodeID      uuid.UUID
	ActivatedAt time.Time
	ExpiresAt   time.Time
}

// New creates an activation starting at now
func New(videoID uuid.UUID, userID string, codeID uuid.UUID, now time.Time) *Activation {
	return &Activation{
		ID:          uuid.New(),
		VideoID:     videoID,
		UserID:      userID,
		CodeID:      codeID,
		ActivatedAt: now,
		ExpiresAt:   now.Add(TTL),
	}
}

// IsLive reports whether the activation still grants access at now. The
// expiry instant itself is still inside the grant.
func (a *Activation) IsLive(now time.Time) bool {
	return !now.After(a.ExpiresAt)
}

// Detail is an activation expanded with the video and code it references
type Detail struct {
	*Activation
	Video *catalog.Video
	Code  *code.AccessCode
}
