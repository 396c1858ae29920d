package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
)

// CatalogService implements a mock catalog service
type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) Create(ctx context.Context, key catalog.Key, youtubeCode string) (*catalog.Video, error) {
	args := m.Called(ctx, key, youtubeCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Video), args.Error(1)
}

func (m *CatalogService) Update(ctx context.Context, key catalog.Key, youtubeCode string) (*catalog.Video, error) {
	args := m.Called(ctx, key, youtubeCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Video), args.Error(1)
}

func (m *CatalogService) Delete(ctx context.Context, key catalog.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *CatalogService) Find(ctx context.Context, key catalog.Key) (*catalog.Video, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Video), args.Error(1)
}

func (m *CatalogService) List(ctx context.Context) ([]*catalog.Video, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*catalog.Video), args.Error(1)
}
