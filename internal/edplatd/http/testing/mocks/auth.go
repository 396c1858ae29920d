package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/auth"
)

// Verifier implements a mock token verifier
type Verifier struct {
	mock.Mock
}

func (m *Verifier) Verify(ctx context.Context, token string) (auth.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Principal), args.Error(1)
}
