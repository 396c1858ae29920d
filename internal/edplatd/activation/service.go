package activation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/events"
)

// Option configures the activation service
type Option func(*service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithPublisher sets the sink for activation lifecycle events
func WithPublisher(p events.Publisher) Option {
	return func(s *service) {
		s.publisher = p
	}
}

type service struct {
	repo      Repository
	videos    catalog.Repository
	codes     code.Repository
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService creates a new activation service
func NewService(repo Repository, videos catalog.Repository, codes code.Repository, logger zerolog.Logger, opts ...Option) Service {
	s := &service{
		repo:      repo,
		videos:    videos,
		codes:     codes,
		publisher: events.NopPublisher{},
		logger:    logger.With().Str("component", "activation").Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Activate(ctx context.Context, key catalog.Key, userID, token string) (*Detail, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	logger := s.logger.With().Str("key", key.Path()).Str("userID", userID).Logger()

	video, err := s.videos.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	existing, err := s.repo.FindByVideoAndUser(ctx, video.ID, userID)
	switch {
	case err == nil && existing.IsLive(now):
		return nil, ErrAlreadyActive
	case err != nil && !errors.Is(err, ErrActivationNotFound):
		return nil, err
	}

	accessCode, err := s.codes.FindByToken(ctx, token)
	if errors.Is(err, code.ErrCodeNotFound) {
		logger.Info().Msg("activation rejected: unknown code")
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	if err := accessCode.CheckRedeemable(now); err != nil {
		logger.Info().Err(err).Str("codeID", accessCode.ID.String()).Msg("activation rejected")
		return nil, ErrInvalidCode
	}

	a := New(video.ID, userID, accessCode.ID, now)
	if err := s.repo.Redeem(ctx, a, now); err != nil {
		if !errors.Is(err, ErrAlreadyActive) && !errors.Is(err, ErrInvalidCode) {
			logger.Error().Err(err).Msg("failed to redeem access code")
		}
		return nil, err
	}
	accessCode.Used = true

	logger.Info().
		Str("activationID", a.ID.String()).
		Time("expiresAt", a.ExpiresAt).
		Msg("video activated")

	s.publish(ctx, events.ActivationCreated, a, video)

	return &Detail{Activation: a, Video: video, Code: accessCode}, nil
}

func (s *service) Deactivate(ctx context.Context, key catalog.Key, userID string) (*Activation, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	video, err := s.videos.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.DeleteByVideoAndUser(ctx, video.ID, userID)
	if err != nil {
		return nil, err
	}

	// An expired row is gone either way, but there was nothing live to revoke
	if !a.IsLive(s.now().UTC()) {
		return nil, ErrActivationNotFound
	}

	s.logger.Info().
		Str("key", key.Path()).
		Str("userID", userID).
		Str("activationID", a.ID.String()).
		Msg("video deactivated")

	s.publish(ctx, events.ActivationRevoked, a, video)
	return a, nil
}

func (s *service) GetVideo(ctx context.Context, key catalog.Key, userID string) (*catalog.Video, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	video, err := s.videos.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.FindByVideoAndUser(ctx, video.ID, userID)
	if errors.Is(err, ErrActivationNotFound) {
		return nil, ErrNoActiveGrant
	}
	if err != nil {
		return nil, err
	}
	if !a.IsLive(s.now().UTC()) {
		return nil, ErrNoActiveGrant
	}

	return video, nil
}

func (s *service) ListMine(ctx context.Context, userID string) ([]*Detail, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}

	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	live := make([]*Activation, 0, len(all))
	for _, a := range all {
		if a.IsLive(now) {
			live = append(live, a)
		}
	}

	return s.expand(ctx, live)
}

func (s *service) ListAll(ctx context.Context) ([]*Detail, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, all)
}

func (s *service) Validate(ctx context.Context, token string) (*Detail, error) {
	accessCode, err := s.codes.FindByToken(ctx, token)
	if errors.Is(err, code.ErrCodeNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	a, err := s.repo.FindByCode(ctx, accessCode.ID)
	if err != nil {
		return nil, err
	}

	video, err := s.videos.FindByID(ctx, a.VideoID)
	if err != nil {
		return nil, err
	}

	return &Detail{Activation: a, Video: video, Code: accessCode}, nil
}

func (s *service) Sweep(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sweep expired activations")
		return 0, err
	}

	for _, a := range removed {
		s.publish(ctx, events.ActivationExpired, a, nil)
	}

	if len(removed) > 0 {
		s.logger.Info().Int("count", len(removed)).Msg("expired activations removed")
	}
	return len(removed), nil
}

// expand resolves the video and code of each activation, loading each
// referenced row once
func (s *service) expand(ctx context.Context, list []*Activation) ([]*Detail, error) {
	videos := make(map[uuid.UUID]*catalog.Video)
	codes := make(map[uuid.UUID]*code.AccessCode)

	details := make([]*Detail, 0, len(list))
	for _, a := range list {
		v, ok := videos[a.VideoID]
		if !ok {
			var err error
			if v, err = s.videos.FindByID(ctx, a.VideoID); err != nil {
				return nil, err
			}
			videos[a.VideoID] = v
		}

		c, ok := codes[a.CodeID]
		if !ok {
			var err error
			if c, err = s.codes.FindByID(ctx, a.CodeID); err != nil {
				return nil, err
			}
			codes[a.CodeID] = c
		}

		details = append(details, &Detail{Activation: a, Video: v, Code: c})
	}
	return details, nil
}

func (s *service) publish(ctx context.Context, typ events.Type, a *Activation, video *catalog.Video) {
	evt := events.Event{
		Type:         typ,
		ActivationID: a.ID,
		VideoID:      a.VideoID,
		UserID:       a.UserID,
		CodeID:       a.CodeID,
		ExpiresAt:    a.ExpiresAt,
		Timestamp:    s.now().UTC(),
	}
	if video != nil {
		evt.VideoPath = video.Key.Path()
	}

	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Str("type", string(typ)).Msg("failed to publish activation event")
	}
}
