// Package http exposes the catalog, access code and activation services
// over a JSON API
package http

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/ratelimit"
)

// Handler encapsulates the HTTP API
type Handler struct {
	catalog     catalog.Service
	codes       code.Service
	activations activation.Service
	verifier    auth.Verifier
	ratelimit   ratelimit.Service
	events      http.Handler
	ready       func(ctx context.Context) error
	validate    *validator.Validate
	logger      zerolog.Logger
}

// Option configures optional handler dependencies
type Option func(*Handler)

// WithRateLimiter enables rate limiting. Without it requests are not throttled.
func WithRateLimiter(s ratelimit.Service) Option {
	return func(h *Handler) {
		h.ratelimit = s
	}
}

// WithEventStream serves the activation event stream
func WithEventStream(stream http.Handler) Option {
	return func(h *Handler) {
		h.events = stream
	}
}

// WithReadiness sets the check behind /readyz
func WithReadiness(check func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.ready = check
	}
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog catalog.Service,
	codes code.Service,
	activations activation.Service,
	verifier auth.Verifier,
	logger zerolog.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		catalog:     catalog,
		codes:       codes,
		activations: activations,
		verifier:    verifier,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With().Str("component", "http").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// handleHealth returns basic health check status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleReady checks if the server is ready to accept requests
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("readiness check failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	h.handleHealth(w, r)
}
