package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
)

// CodeService implements a mock access code service
type CodeService struct {
	mock.Mock
}

func (m *CodeService) Generate(ctx context.Context) (*code.AccessCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*code.AccessCode), args.Error(1)
}

func (m *CodeService) List(ctx context.Context) ([]*code.AccessCode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*code.AccessCode), args.Error(1)
}

func (m *CodeService) Lookup(ctx context.Context, token string) (*code.AccessCode, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*code.AccessCode), args.Error(1)
}
