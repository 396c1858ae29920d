package activation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSweepInterval is used when no interval is configured
const DefaultSweepInterval = time.Minute

// Sweeper periodically removes expired activations
type Sweeper struct {
	service  Service
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweeper creates a sweeper running every interval
func NewSweeper(service Service, interval time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		service:  service,
		interval: interval,
		logger:   logger.With().Str("component", "activation-sweeper").Logger(),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
// Sweep failures are logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("activation sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.service.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("sweep failed")
		}

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("activation sweeper stopped")
			return nil
		case <-ticker.C:
		}
	}
}
