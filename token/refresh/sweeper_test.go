package refresh_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bizgate/go-tenant-auth/token/refresh"
	refreshrepofake "github.com/bizgate/go-tenant-auth/token/refresh/repofake"
)

func TestSweeperRemovesExpiredCredentials(t *testing.T) {
	fs := refreshrepofake.NewFakeRefreshStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := fs.Create(ctx, "tenant-1", "stale", now.Add(-time.Minute))
	require.NoError(t, err)
	_, err = fs.Create(ctx, "tenant-1", "fresh", now.Add(time.Hour))
	require.NoError(t, err)

	sweeper := refresh.NewSweeper(fs, 5*time.Millisecond, zerolog.Nop(),
		refresh.WithSweeperNowFunc(func() time.Time { return now }))
	go sweeper.Run(ctx)

	require.Eventually(t, func() bool { return fs.Len() == 1 }, time.Second, 5*time.Millisecond)

	_, err = fs.Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	fs := refreshrepofake.NewFakeRefreshStore()
	ctx, cancel := context.WithCancel(context.Background())

	sweeper := refresh.NewSweeper(fs, time.Millisecond, zerolog.Nop())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
