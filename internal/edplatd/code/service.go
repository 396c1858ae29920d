package code

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/events"
)

// Repository defines storage operations for access codes. Consuming a code
// is not part of this contract: it happens inside the activation store's
// atomic redeem.
type Repository interface {
	// Create stores a new code, failing with ErrCodeExists on a token collision
	Create(ctx context.Context, c *AccessCode) error

	// FindByToken returns the code with the given token or ErrCodeNotFound
	FindByToken(ctx context.Context, token string) (*AccessCode, error)

	// FindByID returns the code with the given id or ErrCodeNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*AccessCode, error)

	// List returns every code
	List(ctx context.Context) ([]*AccessCode, error)
}

// Service manages access code issuance
type Service interface {
	// Generate creates and stores a new unused code
	Generate(ctx context.Context) (*AccessCode, error)

	// List returns every code, for administrative inspection
	List(ctx context.Context) ([]*AccessCode, error)

	// Lookup returns the code with the given token or ErrCodeNotFound
	Lookup(ctx context.Context, token string) (*AccessCode, error)
}

// Option configures the code service
type Option func(*service)

// WithTTL makes generated codes expire after ttl. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.ttl = ttl
	}
}

// WithPublisher sets the sink for code.generated events
func WithPublisher(p events.Publisher) Option {
	return func(s *service) {
		s.publisher = p
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	repo      Repository
	logger    zerolog.Logger
	ttl       time.Duration
	now       func() time.Time
	publisher events.Publisher
}

// NewService creates a new code issuance service
func NewService(repo Repository, logger zerolog.Logger, opts ...Option) Service {
	s := &service{
		repo:      repo,
		logger:    logger.With().Str("component", "code").Logger(),
		now:       time.Now,
		publisher: events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Generate(ctx context.Context) (*AccessCode, error) {
	c := NewAccessCode(s.now().UTC(), s.ttl)
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Msg("failed to store access code")
		return nil, err
	}

	s.logger.Info().Str("codeID", c.ID.String()).Msg("access code generated")

	evt := events.Event{Type: events.CodeGenerated, CodeID: c.ID, Timestamp: c.CreatedAt}
	if c.ExpiresAt != nil {
		evt.ExpiresAt = *c.ExpiresAt
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish code event")
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]*AccessCode, error) {
	return s.repo.List(ctx)
}

func (s *service) Lookup(ctx context.Context, token string) (*AccessCode, error) {
	if token == "" {
		return nil, ErrCodeNotFound
	}
	return s.repo.FindByToken(ctx, token)
}
