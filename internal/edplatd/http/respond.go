package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// decodeJSON reads a size-limited JSON body into dst and validates it
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return werrors.NewError("INVALID_REQUEST", "invalid request body", "decodeJSON", fmt.Errorf("%w: %v", werrors.ErrInvalidInput, err))
	}
	if err := h.validate.Struct(dst); err != nil {
		return werrors.NewError("VALIDATION_ERROR", validationMessage(err), "decodeJSON", fmt.Errorf("%w: %v", werrors.ErrInvalidInput, err))
	}
	return nil
}

// validationMessage renders validator failures as "field: rule" pairs
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}
