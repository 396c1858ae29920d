package activation_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
)

func TestSweeperRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	d, err := f.service.Activate(ctx, f.key, "u1", f.newCode(t).Code)
	require.NoError(t, err)
	f.clock.Set(d.ExpiresAt.Add(time.Second))

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- activation.NewSweeper(f.service, 10*time.Millisecond, zerolog.Nop()).Run(runCtx)
	}()

	assert.Eventually(t, func() bool {
		all, err := f.service.ListAll(ctx)
		return err == nil && len(all) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
