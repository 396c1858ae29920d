package ratelimit

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Options controls how a request maps onto a rate limit
type Options struct {
	// LimitType selects the registered limit
	LimitType string

	// Subject returns the caller identity, if the request is authenticated
	Subject func(r *http.Request) string

	// Skip bypasses the limiter for matching requests
	Skip func(r *http.Request) bool
}

// errorBody mirrors the API error response shape
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Middleware creates an HTTP middleware for rate limiting. Requests over the
// limit get 429 with a Retry-After header; store failures get 500.
func Middleware(service Service, logger zerolog.Logger, options Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if options.Skip != nil && options.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			reqLogger := logger.With().
				Str("requestId", middleware.GetReqID(r.Context())).
				Str("type", options.LimitType).
				Logger()

			key := LimitKey{
				Type:     options.LimitType,
				RemoteIP: remoteIP(r),
			}
			if options.Subject != nil {
				key.Subject = options.Subject(r)
			}

			status, err := service.Allow(r.Context(), key)
			if status != nil {
				setRateLimitHeaders(w, status)
			}

			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrLimitExceeded):
				handleLimitExceeded(w, r, status, reqLogger)
			default:
				reqLogger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to check rate limit")
				writeJSON(w, http.StatusInternalServerError, errorBody{
					Code:    "INTERNAL_ERROR",
					Message: "internal server error",
				})
			}
		})
	}
}

// setRateLimitHeaders adds the draft IETF RateLimit headers
func setRateLimitHeaders(w http.ResponseWriter, status *LimitStatus) {
	w.Header().Set("RateLimit-Limit", strconv.Itoa(status.Limit.Rate))
	w.Header().Set("RateLimit-Remaining", strconv.Itoa(status.Remaining))
	w.Header().Set("RateLimit-Reset", strconv.FormatInt(status.Reset.Unix(), 10))
	if status.Limit.BurstSize > 0 {
		w.Header().Set("RateLimit-Burst", strconv.Itoa(status.Limit.BurstSize))
	}
}

func handleLimitExceeded(w http.ResponseWriter, r *http.Request, status *LimitStatus, logger zerolog.Logger) {
	retryAfter := 1
	if status != nil {
		if secs := int(time.Until(status.Reset).Seconds()); secs > retryAfter {
			retryAfter = secs
		}
	}

	logger.Warn().
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Int("retryAfter", retryAfter).
		Msg("rate limit exceeded")

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		Code:    ErrLimitExceeded.Code,
		Message: "too many requests, please retry after " + strconv.Itoa(retryAfter) + " seconds",
	})
}

func writeJSON(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// remoteIP strips the port from RemoteAddr; chi's RealIP middleware has
// already applied X-Forwarded-For and X-Real-IP
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
