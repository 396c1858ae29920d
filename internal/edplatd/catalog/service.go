package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new catalog service
func NewService(repo Repository, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}
}

func (s *service) Create(ctx context.Context, key Key, youtubeCode string) (*Video, error) {
	if err := validateYouTubeCode(youtubeCode); err != nil {
		return nil, err
	}

	v := NewVideo(key, youtubeCode, s.now().UTC())
	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("key", key.Path()).Msg("failed to create video")
		return nil, err
	}

	s.logger.Info().Str("key", key.Path()).Str("videoID", v.ID.String()).Msg("video created")
	return v, nil
}

func (s *service) Update(ctx context.Context, key Key, youtubeCode string) (*Video, error) {
	if err := validateYouTubeCode(youtubeCode); err != nil {
		return nil, err
	}

	v, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	v.SetSource(youtubeCode, s.now().UTC())
	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error().Err(err).Str("key", key.Path()).Msg("failed to update video")
		return nil, err
	}

	return v, nil
}

func (s *service) Delete(ctx context.Context, key Key) error {
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		return err
	}
	s.logger.Info().Str("key", key.Path()).Msg("video deleted")
	return nil
}

func (s *service) Find(ctx context.Context, key Key) (*Video, error) {
	return s.repo.FindByKey(ctx, key)
}

func (s *service) List(ctx context.Context) ([]*Video, error) {
	return s.repo.List(ctx)
}

func validateYouTubeCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrInvalidVideo
	}
	return nil
}
