package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Allow(ctx context.Context, key LimitKey) (*LimitStatus, error) {
	args := m.Called(ctx, key)
	status, _ := args.Get(0).(*LimitStatus)
	return status, args.Error(1)
}

func (m *mockService) GetLimit(limitType string) Limit {
	return m.Called(limitType).Get(0).(Limit)
}

func (m *mockService) RegisterLimit(limitType string, limit Limit) error {
	return m.Called(limitType, limit).Error(0)
}

func (m *mockService) Reset(ctx context.Context, key LimitKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockService) RegisterDefaultLimits() {
	m.Called()
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	status := &LimitStatus{
		Limit:     Limit{Rate: 10, Period: time.Minute},
		Remaining: 0,
		Reset:     time.Now().Add(30 * time.Second),
	}
	options := Options{
		LimitType: TypeCodeRedeem,
		Subject:   func(r *http.Request) string { return r.Header.Get("X-User") },
		Skip:      func(r *http.Request) bool { return r.URL.Path == "/healthz" },
	}

	newRequest := func(path string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-User", "u1")
		return req
	}
	wantKey := LimitKey{Type: TypeCodeRedeem, Subject: "u1", RemoteIP: "192.0.2.1"}

	t.Run("allowed", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Allow", mock.Anything, wantKey).Return(status, nil)

		rec := httptest.NewRecorder()
		Middleware(svc, zerolog.Nop(), options)(ok).ServeHTTP(rec, newRequest("/redeem"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("RateLimit-Limit"))
		svc.AssertExpectations(t)
	})

	t.Run("exceeded", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Allow", mock.Anything, wantKey).Return(status, ErrLimitExceeded)

		rec := httptest.NewRecorder()
		Middleware(svc, zerolog.Nop(), options)(ok).ServeHTTP(rec, newRequest("/redeem"))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))

		var body errorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "RATE_LIMITED", body.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Allow", mock.Anything, wantKey).Return(nil, ErrStoreError)

		rec := httptest.NewRecorder()
		Middleware(svc, zerolog.Nop(), options)(ok).ServeHTTP(rec, newRequest("/redeem"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("skipped", func(t *testing.T) {
		svc := new(mockService)

		rec := httptest.NewRecorder()
		Middleware(svc, zerolog.Nop(), options)(ok).ServeHTTP(rec, newRequest("/healthz"))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
	})
}
