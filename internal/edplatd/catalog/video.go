package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// watchURLBase is prefixed to the YouTube code to build a video's source URL
const watchURLBase = "https://www.youtube.com/watch?v="

// Video is a catalog entry addressed by its natural key
type Video struct {
	ID          uuid.UUID
	Key         Key
	Title       string
	Description string
	URL         string
	YouTubeCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewVideo creates a video with derived title, description and URL
func NewVideo(key Key, youtubeCode string, now time.Time) *Video {
	v := &Video{
		ID:        uuid.New(),
		Key:       key,
		CreatedAt: now,
	}
	v.SetSource(youtubeCode, now)
	return v
}

// SetSource points the video at a new YouTube code and re-derives its
// display strings from the key
func (v *Video) SetSource(youtubeCode string, now time.Time) {
	v.Title, v.Description = Describe(v.Key)
	v.YouTubeCode = youtubeCode
	v.URL = watchURLBase + youtubeCode
	v.UpdatedAt = now
}

// Describe derives the title and description of a video from its key.
// Revision titles intentionally omit the session.
func Describe(key Key) (title, description string) {
	switch k := key.(type) {
	case RevisionSession:
		title = fmt.Sprintf("%s %s Revision %s", k.Grade, k.Level, k.Revision)
		description = fmt.Sprintf("Revision video for %s %s, Revision %s", k.Grade, k.Level, k.Revision)
	case UnitSession:
		title = fmt.Sprintf("%s %s Unit %s Session %s", k.Grade, k.Level, k.Unit, k.Session)
		description = fmt.Sprintf("Video for %s %s, Unit %s, Session %s", k.Grade, k.Level, k.Unit, k.Session)
	}
	return title, description
}
