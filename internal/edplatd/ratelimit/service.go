package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type service struct {
	store   Store
	logger  zerolog.Logger
	now     func() time.Time
	limits  map[string]Limit
	limitsM sync.RWMutex
}

// NewService creates a new rate limiting service
func NewService(store Store, logger zerolog.Logger) Service {
	return &service{
		store:  store,
		logger: logger.With().Str("component", "ratelimit").Logger(),
		now:    time.Now,
		limits: make(map[string]Limit),
	}
}

// RegisterLimit adds or updates a rate limit configuration
func (s *service) RegisterLimit(limitType string, limit Limit) error {
	if limitType == "" {
		return ErrInvalidKey
	}
	if limit.Rate <= 0 || limit.Period <= 0 || limit.BurstSize < 0 {
		return ErrInvalidLimit
	}

	s.limitsM.Lock()
	defer s.limitsM.Unlock()

	s.limits[limitType] = limit
	return nil
}

// Allow checks if an operation should be allowed
func (s *service) Allow(ctx context.Context, key LimitKey) (*LimitStatus, error) {
	if key.Type == "" {
		return nil, ErrInvalidKey
	}

	limit := s.GetLimit(key.Type)
	if limit.Rate == 0 {
		s.logger.Warn().Str("type", key.Type).Msg("no rate limit configured for type")
		return nil, nil
	}

	count, resetIn, err := s.store.Increment(ctx, key, limit)
	if err != nil {
		s.logger.Error().Err(err).
			Str("type", key.Type).
			Str("subject", key.Subject).
			Msg("rate limit check failed")
		return nil, err
	}

	status := &LimitStatus{
		Limit:     limit,
		Remaining: limit.Max() - count,
		Reset:     s.now().Add(resetIn),
	}
	if status.Remaining < 0 {
		status.Remaining = 0
	}

	s.logger.Debug().
		Str("type", key.Type).
		Int("count", count).
		Int("limit", limit.Rate).
		Int("burst", limit.BurstSize).
		Msg("rate limit check")

	if count > limit.Max() {
		return status, ErrLimitExceeded
	}
	return status, nil
}

// GetLimit returns the configured limit for a key type
func (s *service) GetLimit(limitType string) Limit {
	s.limitsM.RLock()
	defer s.limitsM.RUnlock()

	return s.limits[limitType]
}

// Reset clears rate limit counters for a key
func (s *service) Reset(ctx context.Context, key LimitKey) error {
	if key.Type == "" {
		return ErrInvalidKey
	}

	if err := s.store.Reset(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("type", key.Type).Msg("failed to reset rate limit")
		return err
	}
	return nil
}

// RegisterDefaultLimits configures standard rate limits
func (s *service) RegisterDefaultLimits() {
	defaults := map[string]Limit{
		// Redemption attempts are the guessing surface for access codes
		TypeCodeRedeem: {Rate: 10, Period: 15 * time.Minute},
		TypeAPIRequest: {Rate: 300, Period: time.Minute, BurstSize: 50},
	}
	for limitType, limit := range defaults {
		if err := s.RegisterLimit(limitType, limit); err != nil {
			s.logger.Error().Err(err).Str("type", limitType).Msg("failed to register default limit")
		}
	}
}
