package activation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/events"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/memstore"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func ofType(typ events.Type) interface{} {
	return mock.MatchedBy(func(e events.Event) bool { return e.Type == typ })
}

// clock is a settable time source shared with the service under test
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store     *memstore.Store
	service   activation.Service
	clock     *clock
	publisher *mockPublisher
	key       catalog.Key
	video     *catalog.Video
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		store:     memstore.New(),
		clock:     &clock{now: start},
		publisher: new(mockPublisher),
		key:       catalog.UnitSession{Grade: "g1", Level: "l1", Unit: "2", Session: "3"},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	f.video = catalog.NewVideo(f.key, "abc123", start)
	require.NoError(t, f.store.Videos().Create(context.Background(), f.video))

	f.service = activation.NewService(
		f.store.Activations(),
		f.store.Videos(),
		f.store.Codes(),
		zerolog.Nop(),
		activation.WithClock(f.clock.Now),
		activation.WithPublisher(f.publisher),
	)
	return f
}

func (f *fixture) newCode(t *testing.T) *code.AccessCode {
	t.Helper()
	c := code.NewAccessCode(f.clock.Now(), 0)
	require.NoError(t, f.store.Codes().Create(context.Background(), c))
	return c
}

func (f *fixture) codeUsed(t *testing.T, c *code.AccessCode) bool {
	t.Helper()
	stored, err := f.store.Codes().FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	return stored.Used
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		c := f.newCode(t)

		d, err := f.service.Activate(ctx, f.key, "u1", c.Code)
		require.NoError(t, err)

		assert.Equal(t, f.video.ID, d.VideoID)
		assert.Equal(t, "u1", d.UserID)
		assert.Equal(t, c.ID, d.CodeID)
		assert.Equal(t, f.clock.Now(), d.ActivatedAt)
		assert.Equal(t, f.clock.Now().Add(7*24*time.Hour), d.ExpiresAt)
		assert.Equal(t, f.video.ID, d.Video.ID)
		assert.True(t, d.Code.Used)
		assert.True(t, f.codeUsed(t, c))

		f.publisher.AssertCalled(t, "Publish", mock.Anything, ofType(events.ActivationCreated))
	})

	t.Run("unknown video", func(t *testing.T) {
		f := newFixture(t)
		c := f.newCode(t)

		missing := catalog.RevisionSession{Grade: "g1", Level: "l1", Revision: "9", Session: "1"}
		_, err := f.service.Activate(ctx, missing, "u1", c.Code)
		assert.ErrorIs(t, err, catalog.ErrVideoNotFound)
		assert.False(t, f.codeUsed(t, c))
	})

	t.Run("already active takes precedence over code validity", func(t *testing.T) {
		f := newFixture(t)
		first := f.newCode(t)
		_, err := f.service.Activate(ctx, f.key, "u1", first.Code)
		require.NoError(t, err)

		second := f.newCode(t)
		_, err = f.service.Activate(ctx, f.key, "u1", second.Code)
		assert.ErrorIs(t, err, activation.ErrAlreadyActive)
		assert.False(t, f.codeUsed(t, second))

		// A bogus code gets the same answer while the grant is live
		_, err = f.service.Activate(ctx, f.key, "u1", "not-a-code")
		assert.ErrorIs(t, err, activation.ErrAlreadyActive)
	})

	t.Run("used code", func(t *testing.T) {
		f := newFixture(t)
		c := f.newCode(t)
		_, err := f.service.Activate(ctx, f.key, "u1", c.Code)
		require.NoError(t, err)

		_, err = f.service.Activate(ctx, f.key, "u2", c.Code)
		assert.ErrorIs(t, err, activation.ErrInvalidCode)

		mine, err := f.service.ListMine(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, mine)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Activate(ctx, f.key, "u1", "nope")
		assert.ErrorIs(t, err, activation.ErrInvalidCode)
	})

	t.Run("expired code", func(t *testing.T) {
		f := newFixture(t)
		c := code.NewAccessCode(f.clock.Now(), time.Hour)
		require.NoError(t, f.store.Codes().Create(ctx, c))

		f.clock.Set(f.clock.Now().Add(2 * time.Hour))
		_, err := f.service.Activate(ctx, f.key, "u1", c.Code)
		assert.ErrorIs(t, err, activation.ErrInvalidCode)
		assert.False(t, f.codeUsed(t, c))
	})

	t.Run("reactivate after expiry", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Activate(ctx, f.key, "u1", f.newCode(t).Code)
		require.NoError(t, err)

		f.clock.Set(f.clock.Now().Add(activation.TTL + time.Second))
		d, err := f.service.Activate(ctx, f.key, "u1", f.newCode(t).Code)
		require.NoError(t, err)
		assert.Equal(t, f.clock.Now().Add(activation.TTL), d.ExpiresAt)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Activate(ctx, f.key, "", f.newCode(t).Code)
		assert.ErrorIs(t, err, activation.ErrMissingUser)
	})
}

func TestActivateConcurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("one pair, many codes", func(t *testing.T) {
		f := newFixture(t)

		const workers = 16
		codes := make([]*code.AccessCode, workers)
		for i := range codes {
			codes[i] = f.newCode(t)
		}

		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(c *code.AccessCode) {
				defer wg.Done()
				_, err := f.service.Activate(ctx, f.key, "u1", c.Code)
				if err == nil {
					succeeded.Add(1)
					return
				}
				assert.ErrorIs(t, err, activation.ErrAlreadyActive)
			}(codes[i])
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())

		used := 0
		for _, c := range codes {
			if f.codeUsed(t, c) {
				used++
			}
		}
		assert.Equal(t, 1, used, "only the winning code is consumed")

		mine, err := f.service.ListMine(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("one code, many users", func(t *testing.T) {
		f := newFixture(t)
		c := f.newCode(t)

		const workers = 16
		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				if _, err := f.service.Activate(ctx, f.key, user, c.Code); err == nil {
					succeeded.Add(1)
				} else {
					assert.ErrorIs(t, err, activation.ErrInvalidCode)
				}
			}(string(rune('a' + i)))
		}
		wg.Wait()

		assert.Equal(t, int32(1), succeeded.Load())
	})
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("twice", func(t *testing.T) {
		f := newFixture(t)
		c := f.newCode(t)
		_, err := f.service.Activate(ctx, f.key, "u1", c.Code)
		require.NoError(t, err)

		a, err := f.service.Deactivate(ctx, f.key, "u1")
		require.NoError(t, err)
		assert.Equal(t, c.ID, a.CodeID)
		f.publisher.AssertCalled(t, "Publish", mock.Anything, ofType(events.ActivationRevoked))

		_, err = f.service.Deactivate(ctx, f.key, "u1")
		assert.ErrorIs(t, err, activation.ErrActivationNotFound)
		assert.True(t, f.codeUsed(t, c), "codes are never restored")

		_, err = f.service.GetVideo(ctx, f.key, "u1")
		assert.ErrorIs(t, err, activation.ErrNoActiveGrant)
	})

	t.Run("expired grant", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Activate(ctx, f.key, "u1", f.newCode(t).Code)
		require.NoError(t, err)

		f.clock.Set(f.clock.Now().Add(activation.TTL + time.Millisecond))
		_, err = f.service.Deactivate(ctx, f.key, "u1")
		assert.ErrorIs(t, err, activation.ErrActivationNotFound)
	})

	t.Run("unknown video", func(t *testing.T) {
		f := newFixture(t)
		missing := catalog.UnitSession{Grade: "x", Level: "y", Unit: "1", Session: "1"}
		_, err := f.service.Deactivate(ctx, missing, "u1")
		assert.ErrorIs(t, err, catalog.ErrVideoNotFound)
	})
}

func TestGetVideo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.GetVideo(ctx, f.key, "u1")
	assert.ErrorIs(t, err, activation.ErrNoActiveGrant)

	d, err := f.service.Activate(ctx, f.key, "u1", f.newCode(t).Code)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		allowed bool
	}{
		{"just activated", d.ActivatedAt, true},
		{"one millisecond before expiry", d.ExpiresAt.Add(-time.Millisecond), true},
		{"at expiry", d.ExpiresAt, true},
		{"one millisecond after expiry", d.ExpiresAt.Add(time.Millisecond), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.clock.Set(tt.at)
			v, err := f.service.GetVideo(ctx, f.key, "u1")
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, "https://www.youtube.com/watch?v=abc123", v.URL)
			} else {
				assert.ErrorIs(t, err, activation.ErrNoActiveGrant)
			}
		})
	}

	t.Run("other user", func(t *testing.T) {
		f.clock.Set(d.ActivatedAt)
		_, err := f.service.GetVideo(ctx, f.key, "u2")
		assert.ErrorIs(t, err, activation.ErrNoActiveGrant)
	})
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other := catalog.RevisionSession{Grade: "g1", Level: "l1", Revision: "1", Session: "1"}
	require.NoError(t, f.store.Videos().Create(ctx, catalog.NewVideo(other, "rev", f.clock.Now())))

	_, err := f.service.Activate(ctx, f.key, "u1", f.newCode(t).Code)
	require.NoError(t, err)

	f.clock.Set(f.clock.Now().Add(6 * 24 * time.Hour))
	_, err = f.service.Activate(ctx, other, "u1", f.newCode(t).Code)
	require.NoError(t, err)

	mine, err := f.service.ListMine(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// The first grant lapses while the second is still live
	f.clock.Set(f.clock.Now().Add(2 * 24 * time.Hour))
	mine, err = f.service.ListMine(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, other, mine[0].Video.Key)
	assert.True(t, mine[0].Code.Used)

	all, err := f.service.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "unswept rows are still listed for administrators")
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Validate(ctx, "nope")
	assert.ErrorIs(t, err, activation.ErrInvalidCode)

	c := f.newCode(t)
	_, err = f.service.Validate(ctx, c.Code)
	assert.ErrorIs(t, err, activation.ErrActivationNotFound)

	_, err = f.service.Activate(ctx, f.key, "u1", c.Code)
	require.NoError(t, err)

	d, err := f.service.Validate(ctx, c.Code)
	require.NoError(t, err)
	assert.Equal(t, "u1", d.UserID)
	assert.Equal(t, f.video.ID, d.Video.ID)
	assert.Equal(t, c.ID, d.Code.ID)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	d, err := f.service.Activate(ctx, f.key, "u1", f.newCode(t).Code)
	require.NoError(t, err)

	f.clock.Set(d.ExpiresAt)
	n, err := f.service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.clock.Set(d.ExpiresAt.Add(time.Millisecond))
	n, err = f.service.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.ActivationExpired && e.ActivationID == d.ID && e.UserID == "u1"
	}))

	all, err := f.service.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPublishFailureDoesNotFailActivation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	failing := new(mockPublisher)
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("hub closed"))

	svc := activation.NewService(
		f.store.Activations(), f.store.Videos(), f.store.Codes(), zerolog.Nop(),
		activation.WithClock(f.clock.Now),
		activation.WithPublisher(failing),
	)

	_, err := svc.Activate(ctx, f.key, "u1", f.newCode(t).Code)
	assert.NoError(t, err)
	failing.AssertNumberOfCalls(t, "Publish", 1)
}
