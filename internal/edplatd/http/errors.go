package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

// writeError writes err as a JSON error body with the status derived from
// its category. Unclassified errors are logged and hidden behind a 500.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		writeJSON(w, status, errorResponse("INTERNAL_ERROR", "an unexpected error occurred"), logger)
		return
	}

	code, message := werrors.CodeOf(err), err.Error()
	if domainErr, ok := err.(*werrors.Error); ok {
		message = domainErr.Message
	}
	if code == "" {
		code = defaultCode(status)
	}
	writeJSON(w, status, errorResponse(code, message), logger)
}

// statusOf maps error categories to HTTP status codes
func statusOf(err error) int {
	switch {
	case werrors.IsInvalidInput(err):
		return http.StatusBadRequest
	case werrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case werrors.IsForbidden(err):
		return http.StatusForbidden
	case werrors.IsNotFound(err):
		return http.StatusNotFound
	case werrors.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func defaultCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	}
	return "INTERNAL_ERROR"
}

func errorResponse(code, message string) v1alpha1.ErrorResponse {
	return v1alpha1.ErrorResponse{Code: code, Message: message}
}
