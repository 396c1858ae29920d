package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/ratelimit"
)

// RateLimitService implements a mock rate limiting service
type RateLimitService struct {
	mock.Mock
}

func (m *RateLimitService) Allow(ctx context.Context, key ratelimit.LimitKey) (*ratelimit.LimitStatus, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ratelimit.LimitStatus), args.Error(1)
}

func (m *RateLimitService) GetLimit(limitType string) ratelimit.Limit {
	args := m.Called(limitType)
	return args.Get(0).(ratelimit.Limit)
}

func (m *RateLimitService) RegisterLimit(limitType string, limit ratelimit.Limit) error {
	args := m.Called(limitType, limit)
	return args.Error(0)
}

func (m *RateLimitService) Reset(ctx context.Context, key ratelimit.LimitKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *RateLimitService) RegisterDefaultLimits() {
	m.Called()
}
