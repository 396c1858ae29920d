package http

import (
	"net/http"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
)

// handleGenerateCode issues a new single-use access code
func (h *Handler) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	c, err := h.codes.Generate(r.Context())
	if err != nil {
		writeError(w, err, logger)
		return
	}

	logger.Info().Str("codeId", c.ID.String()).Msg("access code generated")
	writeJSON(w, http.StatusCreated, toAccessCode(c), logger)
}

func (h *Handler) handleListCodes(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	codes, err := h.codes.List(r.Context())
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.NewListResponse(toAccessCodes(codes)), logger)
}
