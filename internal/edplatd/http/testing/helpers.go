// Package testing provides a handler wired to mock services for HTTP tests
package testing

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	edplathttp "github.com/khaledhosny129/Educational-platform/internal/edplatd/http"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/http/testing/mocks"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/ratelimit"
)

// Test identities
const (
	UserToken  = "user-token"
	AdminToken = "admin-token"
	UserID     = "user-1"
	AdminID    = "admin-1"
)

// TestHandler provides access to the router and mocks for testing
type TestHandler struct {
	Handler     *edplathttp.Handler
	Router      http.Handler
	Catalog     *mocks.CatalogService
	Codes       *mocks.CodeService
	Activations *mocks.ActivationService
	Verifier    *mocks.Verifier
	RateLimit   *mocks.RateLimitService
	t           *testing.T
}

// NewTestHandler creates a handler with mock services. Known tokens map to a
// user and an admin principal; rate limiting allows every request.
func NewTestHandler(t *testing.T) *TestHandler {
	th := &TestHandler{
		Catalog:     &mocks.CatalogService{},
		Codes:       &mocks.CodeService{},
		Activations: &mocks.ActivationService{},
		Verifier:    &mocks.Verifier{},
		RateLimit:   &mocks.RateLimitService{},
		t:           t,
	}

	th.Verifier.On("Verify", mock.Anything, UserToken).
		Return(auth.Principal{UserID: UserID, Role: auth.RoleUser}, nil).Maybe()
	th.Verifier.On("Verify", mock.Anything, AdminToken).
		Return(auth.Principal{UserID: AdminID, Role: auth.RoleAdmin}, nil).Maybe()
	th.Verifier.On("Verify", mock.Anything, "").
		Return(auth.Principal{}, auth.ErrMissingToken).Maybe()
	th.Verifier.On("Verify", mock.Anything, mock.AnythingOfType("string")).
		Return(auth.Principal{}, auth.ErrInvalidToken).Maybe()

	th.SetupRateLimitBypass()

	th.Handler = edplathttp.NewHandler(
		th.Catalog,
		th.Codes,
		th.Activations,
		th.Verifier,
		zerolog.Nop(),
		edplathttp.WithRateLimiter(th.RateLimit),
	)
	th.Router = th.Handler.Router()
	return th
}

// SetupRateLimitBypass configures the rate limit mock to allow all requests
func (th *TestHandler) SetupRateLimitBypass() {
	status := &ratelimit.LimitStatus{
		Limit:     ratelimit.Limit{Rate: 100, Period: time.Minute},
		Remaining: 99,
		Reset:     time.Now().Add(time.Minute),
	}
	th.RateLimit.On("Allow", mock.Anything, mock.MatchedBy(func(key ratelimit.LimitKey) bool {
		return key.Type != ""
	})).Return(status, nil).Maybe()
}

// Do sends a request through the router. A non-empty token is sent as a
// bearer credential; a non-nil body is JSON encoded.
func (th *TestHandler) Do(method, target, token string, body any) *httptest.ResponseRecorder {
	th.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(th.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	th.Router.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON decodes a response body into v
func (th *TestHandler) DecodeJSON(rec *httptest.ResponseRecorder, v any) {
	th.t.Helper()
	require.NoError(th.t, json.Unmarshal(rec.Body.Bytes(), v))
}

// CleanupTest asserts every mock expectation was met
func (th *TestHandler) CleanupTest() {
	th.Catalog.AssertExpectations(th.t)
	th.Codes.AssertExpectations(th.t)
	th.Activations.AssertExpectations(th.t)
	th.RateLimit.AssertExpectations(th.t)
}
