// Package metrics registers the service's prometheus collectors. Counters
// are package-level so domain packages can increment them without plumbing
// a registry through every constructor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login calls by outcome
	// (success|unauthorized|inactive|no_subscription|error).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenantauth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// TokenVerifications counts access/refresh verification calls by outcome.
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenantauth",
		Name:      "token_verifications_total",
		Help:      "Token verifications by kind and outcome.",
	}, []string{"kind", "outcome"})

	// RefreshRotations counts refresh-token rotations by outcome.
	RefreshRotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenantauth",
		Name:      "refresh_rotations_total",
		Help:      "Refresh token rotations by outcome.",
	}, []string{"outcome"})

	// TokensSwept counts refresh credentials removed by the expiry sweeper.
	TokensSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tenantauth",
		Name:      "refresh_tokens_swept_total",
		Help:      "Expired refresh credentials removed by the sweeper.",
	})
)
