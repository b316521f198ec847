package refreshrepofake_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizgate/go-tenant-auth/token/refresh"
	refreshrepofake "github.com/bizgate/go-tenant-auth/token/refresh/repofake"
)

func TestCreateAndGet(t *testing.T) {
	fs := refreshrepofake.NewFakeRefreshStore()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	created, err := fs.Create(ctx, "tenant-1", "tok-1", expires)
	require.NoError(t, err)
	require.Equal(t, "tenant-1", created.TenantID)
	require.False(t, created.Revoked)

	got, err := fs.Get(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, created.Token, got.Token)

	_, err = fs.Get(ctx, "missing")
	require.ErrorIs(t, err, refresh.ErrNotFound)
}

func TestRevokeFlipsExactlyOnce(t *testing.T) {
	fs := refreshrepofake.NewFakeRefreshStore()
	ctx := context.Background()

	_, err := fs.Create(ctx, "tenant-1", "tok-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	flipped, err := fs.Revoke(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, flipped)

	flipped, err = fs.Revoke(ctx, "tok-1")
	require.NoError(t, err)
	require.False(t, flipped)

	flipped, err = fs.Revoke(ctx, "missing")
	require.NoError(t, err)
	require.False(t, flipped)
}

func TestConcurrentRevokeHasSingleWinner(t *testing.T) {
	fs := refreshrepofake.NewFakeRefreshStore()
	ctx := context.Background()

	_, err := fs.Create(ctx, "tenant-1", "tok-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flipped, err := fs.Revoke(ctx, "tok-1")
			require.NoError(t, err)
			wins <- flipped
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for flipped := range wins {
		if flipped {
			winners++
		}
	}
	require.Equal(t, 1, winners)
}

func TestRevokeAllForTenant(t *testing.T) {
	fs := refreshrepofake.NewFakeRefreshStore()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	_, err := fs.Create(ctx, "tenant-1", "tok-1", expires)
	require.NoError(t, err)
	_, err = fs.Create(ctx, "tenant-1", "tok-2", expires)
	require.NoError(t, err)
	_, err = fs.Create(ctx, "tenant-2", "tok-3", expires)
	require.NoError(t, err)

	require.NoError(t, fs.RevokeAllForTenant(ctx, "tenant-1"))

	for _, token := range []string{"tok-1", "tok-2"} {
		cred, err := fs.Get(ctx, token)
		require.NoError(t, err)
		require.True(t, cred.Revoked)
	}

	other, err := fs.Get(ctx, "tok-3")
	require.NoError(t, err)
	require.False(t, other.Revoked)
}

func TestSweepExpiredRemovesOnlyExpired(t *testing.T) {
	fs := refreshrepofake.NewFakeRefreshStore()
	ctx := context.Background()
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := fs.Create(ctx, "tenant-1", "stale", now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = fs.Create(ctx, "tenant-1", "fresh", now.Add(time.Hour))
	require.NoError(t, err)

	removed, err := fs.SweepExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, fs.Len())

	_, err = fs.Get(ctx, "stale")
	require.ErrorIs(t, err, refresh.ErrNotFound)
	_, err = fs.Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestCredentialValid(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	cred := refresh.Credential{Token: "tok", ExpiresAt: now.Add(time.Hour)}
	require.True(t, cred.Valid(now))

	cred.Revoked = true
	require.False(t, cred.Valid(now))

	cred.Revoked = false
	require.False(t, cred.Valid(now.Add(2*time.Hour)))
}
