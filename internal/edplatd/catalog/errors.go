package catalog

import werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"

var (
	// ErrInvalidKey indicates malformed natural key segments
	ErrInvalidKey = werrors.NewError("INVALID_KEY", "invalid video key", "", werrors.ErrInvalidInput)

	// ErrInvalidVideo indicates missing or malformed video attributes
	ErrInvalidVideo = werrors.NewError("INVALID_VIDEO", "invalid video attributes", "", werrors.ErrInvalidInput)

	// ErrVideoNotFound indicates no video matches the natural key
	ErrVideoNotFound = werrors.NewError("VIDEO_NOT_FOUND", "no video found with the specified details", "", werrors.ErrNotFound)

	// ErrVideoExists indicates a video with the same natural key is already cataloged
	ErrVideoExists = werrors.NewError("VIDEO_EXISTS", "a video with the specified details already exists", "", werrors.ErrConflict)
)
