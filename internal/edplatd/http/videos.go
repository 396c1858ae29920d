package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
)

// videoKey parses the natural key from the request path
func videoKey(r *http.Request) (catalog.Key, error) {
	return catalog.ParseKey(
		chi.URLParam(r, "grade"),
		chi.URLParam(r, "level"),
		chi.URLParam(r, "part"),
		chi.URLParam(r, "session"),
	)
}

// handleCreateVideo catalogs a new video
func (h *Handler) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	key, err := videoKey(r)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	var req v1alpha1.VideoRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, err, logger)
		return
	}

	video, err := h.catalog.Create(r.Context(), key, req.YouTubeCode)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	logger.Info().Str("video", key.Path()).Msg("video created")
	writeJSON(w, http.StatusCreated, toVideo(video), logger)
}

// handleUpdateVideo re-points a video at a new YouTube code
func (h *Handler) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	key, err := videoKey(r)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	var req v1alpha1.VideoRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, err, logger)
		return
	}

	video, err := h.catalog.Update(r.Context(), key, req.YouTubeCode)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, toVideo(video), logger)
}

// handleDeleteVideo removes a video and, with it, its activations
func (h *Handler) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	key, err := videoKey(r)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	if err := h.catalog.Delete(r.Context(), key); err != nil {
		writeError(w, err, logger)
		return
	}

	logger.Info().Str("video", key.Path()).Msg("video deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListVideos(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)

	videos, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, v1alpha1.NewListResponse(toVideos(videos)), logger)
}

// handleGetVideo returns a video to a user holding a live activation for it
func (h *Handler) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(h.logger, r)
	principal, _ := auth.PrincipalFrom(r.Context())

	key, err := videoKey(r)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	video, err := h.activations.GetVideo(r.Context(), key, principal.UserID)
	if err != nil {
		writeError(w, err, logger)
		return
	}

	writeJSON(w, http.StatusOK, toVideo(video), logger)
}
