package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizgate/go-tenant-auth/internal/config"
)

func TestDefaults(t *testing.T) {
	c := config.New()

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, time.Hour, c.GetAccessTokenExpiry())
	require.Equal(t, 30*24*time.Hour, c.GetRefreshTokenExpiry())
	require.Equal(t, 10, c.GetBcryptCost())
	require.Equal(t, time.Hour, c.GetSweepInterval())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("JWT_REFRESH_EXPIRY", "168h")
	t.Setenv("BCRYPT_ROUNDS", "12")
	t.Setenv("SWEEP_INTERVAL", "30m")

	c := config.New()
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "from-env", c.GetJWTSecret())
	require.Equal(t, 15*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, 7*24*time.Hour, c.GetRefreshTokenExpiry())
	require.Equal(t, 12, c.GetBcryptCost())
	require.Equal(t, 30*time.Minute, c.GetSweepInterval())
}

func TestMalformedDurationsFallBack(t *testing.T) {
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")
	t.Setenv("BCRYPT_ROUNDS", "lots")

	c := config.New()
	require.Equal(t, time.Hour, c.GetAccessTokenExpiry())
	require.Equal(t, 10, c.GetBcryptCost())
}
