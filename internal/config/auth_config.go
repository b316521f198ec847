package config

import (
	"strconv"
	"time"
)

// AuthConfig exposes the token and credential-hashing settings.
type AuthConfig interface {
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetBcryptCost() int
	GetSweepInterval() time.Duration
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return getDuration("JWT_ACCESS_EXPIRY", time.Hour)
}

func (Auth) GetRefreshTokenExpiry() time.Duration {
	return getDuration("JWT_REFRESH_EXPIRY", 30*24*time.Hour)
}

func (Auth) GetBcryptCost() int {
	v := GetEnv("BCRYPT_ROUNDS", "")
	if v == "" {
		return 10
	}
	cost, err := strconv.Atoi(v)
	if err != nil {
		return 10
	}
	return cost
}

func (Auth) GetSweepInterval() time.Duration {
	return getDuration("SWEEP_INTERVAL", time.Hour)
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	v := GetEnv(envVar, "")
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
