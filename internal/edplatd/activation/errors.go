package activation

import werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"

var (
	// ErrInvalidCode covers codes that are unknown, already used or expired
	ErrInvalidCode = werrors.NewError("INVALID_CODE", "invalid or expired access code", "", werrors.ErrInvalidInput)

	// ErrAlreadyActive indicates the user already holds a live activation for the video
	ErrAlreadyActive = werrors.NewError("ALREADY_ACTIVE", "this video is already activated", "", werrors.ErrInvalidInput)

	// ErrActivationNotFound indicates there is no activation to act on
	ErrActivationNotFound = werrors.NewError("ACTIVATION_NOT_FOUND", "no active subscription for this video", "", werrors.ErrNotFound)

	// ErrNoActiveGrant indicates the user may not watch the video
	ErrNoActiveGrant = werrors.NewError("NO_ACTIVE_GRANT", "you do not have access to this video", "", werrors.ErrForbidden)

	// ErrMissingUser indicates a call without an authenticated user
	ErrMissingUser = werrors.NewError("MISSING_USER", "an authenticated user is required", "", werrors.ErrUnauthorized)
)
