package http

import (
	"net/http"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
)

// deactivatedMessage confirms a revoked activation
const deactivatedMessage = "Video deactivated successfully"

// handleActivate redeems an access code for the video in the path
func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)
	principal, _ := auth.PrincipalFrom(r.Context())

	key, err := videoKey(r)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	var req v1alpha1.ActivateRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, err, logger)
		return
	}

	detail, err := h.activations.Activate(r.Context(), key, principal.UserID, req.Code)
	if err != nil {
		logger.Debug().Err(err).Str("video", key.Path()).Str("userId", principal.UserID).Msg("activation rejected")
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, toActivation(detail), logger)
}

// handleDeactivate revokes the caller's live activation for the video
func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)
	principal, _ := auth.PrincipalFrom(r.Context())

	key, err := videoKey(r)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	if _, err := h.activations.Deactivate(r.Context(), key, principal.UserID); err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.DeactivateResponse{Message: deactivatedMessage}, logger)
}

// handleListMyActivations lists the caller's live activations
func (h *Handler) handleListMyActivations(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)
	principal, _ := auth.PrincipalFrom(r.Context())

	details, err := h.activations.ListMine(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.NewListResponse(toActivations(details)), logger)
}

func (h *Handler) handleListActivations(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	details, err := h.activations.ListAll(r.Context())
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.NewListResponse(toActivations(details)), logger)
}

// handleValidateCode reports who redeemed a code and for which video
func (h *Handler) handleValidateCode(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	var req v1alpha1.ValidateRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, err, logger)
		return
	}

	detail, err := h.activations.Validate(r.Context(), req.Code)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.ValidateResponse{
		Video: toVideo(detail.Video),
		User:  v1alpha1.UserRef{ID: detail.UserID},
		Code:  toAccessCode(detail.Code),
	}, logger)
}
