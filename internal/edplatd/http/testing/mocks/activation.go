package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
)

// ActivationService implements a mock activation service
type ActivationService struct {
	mock.Mock
}

func (m *ActivationService) Activate(ctx context.Context, key catalog.Key, userID, token string) (*activation.Detail, error) {
	args := m.Called(ctx, key, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activation.Detail), args.Error(1)
}

func (m *ActivationService) Deactivate(ctx context.Context, key catalog.Key, userID string) (*activation.Activation, error) {
	args := m.Called(ctx, key, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activation.Activation), args.Error(1)
}

func (m *ActivationService) GetVideo(ctx context.Context, key catalog.Key, userID string) (*catalog.Video, error) {
	args := m.Called(ctx, key, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Video), args.Error(1)
}

func (m *ActivationService) ListMine(ctx context.Context, userID string) ([]*activation.Detail, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*activation.Detail), args.Error(1)
}

func (m *ActivationService) ListAll(ctx context.Context) ([]*activation.Detail, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*activation.Detail), args.Error(1)
}

func (m *ActivationService) Validate(ctx context.Context, token string) (*activation.Detail, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activation.Detail), args.Error(1)
}

func (m *ActivationService) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
