package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, v *Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockRepository) FindByKey(ctx context.Context, key Key) (*Video, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.(*Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Video, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, v *Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *mockRepository) DeleteByKey(ctx context.Context, key Key) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockRepository) List(ctx context.Context) ([]*Video, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*Video), args.Error(1)
}

var testNow = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

var testKey = UnitSession{Grade: "g1", Level: "l1", Unit: "2", Session: "3"}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives display strings", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.AnythingOfType("*catalog.Video")).Return(nil)

		v, err := NewService(repo, zerolog.Nop()).Create(ctx, testKey, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "g1 l1 Unit 2 Session 3", v.Title)
		assert.Equal(t, "https://www.youtube.com/watch?v=abc123", v.URL)
		assert.Equal(t, "abc123", v.YouTubeCode)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", ctx, mock.Anything).Return(ErrVideoExists)

		_, err := NewService(repo, zerolog.Nop()).Create(ctx, testKey, "abc123")
		assert.ErrorIs(t, err, ErrVideoExists)
	})

	t.Run("blank youtube code", func(t *testing.T) {
		repo := new(mockRepository)

		_, err := NewService(repo, zerolog.Nop()).Create(ctx, testKey, "  ")
		assert.ErrorIs(t, err, ErrInvalidVideo)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("re-derives url", func(t *testing.T) {
		existing := NewVideo(testKey, "old", testNow)
		repo := new(mockRepository)
		repo.On("FindByKey", ctx, testKey).Return(existing, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(v *Video) bool {
			return v.URL == "https://www.youtube.com/watch?v=new" && v.ID == existing.ID
		})).Return(nil)

		v, err := NewService(repo, zerolog.Nop()).Update(ctx, testKey, "new")
		require.NoError(t, err)
		assert.Equal(t, "new", v.YouTubeCode)
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("FindByKey", ctx, testKey).Return(nil, ErrVideoNotFound)

		_, err := NewService(repo, zerolog.Nop()).Update(ctx, testKey, "new")
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	repo.On("DeleteByKey", ctx, testKey).Return(nil).Once()
	repo.On("DeleteByKey", ctx, testKey).Return(ErrVideoNotFound)

	svc := NewService(repo, zerolog.Nop())
	assert.NoError(t, svc.Delete(ctx, testKey))
	assert.ErrorIs(t, svc.Delete(ctx, testKey), ErrVideoNotFound)
}
