package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/ratelimit"
)

// APIPrefix is where the versioned API is mounted
const APIPrefix = "/api/v1alpha1"

// videoPattern matches a video by its natural key; part is u<unit> or r<revision>
const videoPattern = "/videos/{grade}/{level}/{part}/{session}"

// Router returns the HTTP router with every endpoint mounted
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestIDHeaderMiddleware)
	r.Use(middleware.RealIP)
	r.Use(recoverMiddleware(h.logger))
	r.Use(logMiddleware(h.logger))

	// Health check endpoints (no rate limiting)
	r.Get("/healthz", h.handleHealth)
	r.Get("/readyz", h.handleReady)

	r.Route(APIPrefix, func(r chi.Router) {
		// Public code lookup
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(10 * time.Second))
			r.Use(h.rateLimit(ratelimit.TypeCodeRedeem))
			r.Post("/activations/validate", h.handleValidateCode)
		})

		// Event stream: long-lived, so no timeout middleware
		if h.events != nil {
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware(h.verifier, h.logger))
				r.Use(requireRole(auth.RoleAdmin))
				r.Get("/activations/events", h.events.ServeHTTP)
			})
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))
			r.Use(authMiddleware(h.verifier, h.logger))
			r.Use(h.rateLimit(ratelimit.TypeAPIRequest))

			// Any authenticated user
			r.Get("/videos/activations", h.handleListMyActivations)
			r.Get(videoPattern, h.handleGetVideo)
			r.With(h.rateLimit(ratelimit.TypeCodeRedeem)).Post(videoPattern+"/activate", h.handleActivate)
			r.Post(videoPattern+"/deactivate", h.handleDeactivate)

			// Administrators
			r.Group(func(r chi.Router) {
				r.Use(requireRole(auth.RoleAdmin))

				r.Post("/codes/generate", h.handleGenerateCode)
				r.Get("/codes", h.handleListCodes)

				r.Get("/videos", h.handleListVideos)
				r.Post(videoPattern, h.handleCreateVideo)
				r.Patch(videoPattern, h.handleUpdateVideo)
				r.Delete(videoPattern, h.handleDeleteVideo)

				r.Get("/activations", h.handleListActivations)
			})
		})
	})

	return r
}

// rateLimit returns the limiter middleware for limitType, or a pass-through
// when rate limiting is disabled
func (h *Handler) rateLimit(limitType string) func(http.Handler) http.Handler {
	if h.ratelimit == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimit.Middleware(h.ratelimit, h.logger, ratelimit.Options{
		LimitType: limitType,
		Subject: func(r *http.Request) string {
			if p, ok := auth.PrincipalFrom(r.Context()); ok {
				return p.UserID
			}
			return ""
		},
	})
}
