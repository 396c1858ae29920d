package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// VideoKind distinguishes unit videos from revision videos
type VideoKind string

const (
	VideoKindUnit     VideoKind = "unit"
	VideoKindRevision VideoKind = "revision"
)

// VideoKey is the natural key of a video. Exactly one of Unit and Revision is set.
type VideoKey struct {
	Grade    string    `json:"grade"`
	Level    string    `json:"level"`
	Kind     VideoKind `json:"kind"`
	Unit     string    `json:"unit,omitempty"`
	Revision string    `json:"revision,omitempty"`
	Session  string    `json:"session"`
}

// Video is a catalog entry
type Video struct {
	ID          uuid.UUID `json:"id"`
	Key         VideoKey  `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	YouTubeCode string    `json:"youtubeCode"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VideoRequest is the body for creating or updating a video
type VideoRequest struct {
	YouTubeCode string `json:"youtubeCode" validate:"required,max=64"`
}
