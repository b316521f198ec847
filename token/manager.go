package token

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/bizgate/go-tenant-auth/internal/metrics"
	"github.com/bizgate/go-tenant-auth/tenants"
	"github.com/bizgate/go-tenant-auth/token/refresh"
)

// ErrInvalidToken is the single failure every verification problem collapses
// into. The cause (expired vs tampered vs revoked) is logged internally but
// never surfaced, so a caller probing tokens learns nothing from the error.
var ErrInvalidToken = errors.New("invalid token")

const (
	defaultAccessTokenExpiry  = time.Hour
	defaultRefreshTokenExpiry = 30 * 24 * time.Hour
)

// Manager issues and verifies both credential kinds and orchestrates
// refresh-token rotation through the store.
type Manager struct {
	signer             Signer
	store              refresh.Store
	directory          tenants.Repo
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
	log                zerolog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTokenExpiry overrides the access and refresh credential TTLs.
func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		if accessTokenExpiry > 0 {
			m.accessTokenExpiry = accessTokenExpiry
		}
		if refreshTokenExpiry > 0 {
			m.refreshTokenExpiry = refreshTokenExpiry
		}
	}
}

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithLogger sets the internal logger used for verification diagnostics.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// New creates a Manager. The signer holds the process-wide secret, the store
// tracks refresh credentials and the directory is consulted during rotation.
func New(signer Signer, store refresh.Store, directory tenants.Repo, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:             signer,
		store:              store,
		directory:          directory,
		accessTokenExpiry:  defaultAccessTokenExpiry,
		refreshTokenExpiry: defaultRefreshTokenExpiry,
		nowFunc:            time.Now,
		log:                zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// AccessTokenExpiry returns the configured access credential TTL.
func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

// IssueAccessToken signs a short-lived, self-contained access credential
// carrying the tenant's id, identifier and display name.
func (m *Manager) IssueAccessToken(tenant *tenants.Tenant) (string, error) {
	now := m.nowFunc()
	claims := &Claims{
		TenantID:   tenant.ID,
		Identifier: tenant.Identifier,
		Name:       tenant.Name,
		Kind:       KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenExpiry)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.IssueAccessToken] sign")
	}
	return signed, nil
}

// IssueRefreshToken signs a refresh credential and persists a store row with
// the same expiry as the signature, so the two can never disagree about when
// the credential dies. Verification checks both.
func (m *Manager) IssueRefreshToken(ctx context.Context, tenant *tenants.Tenant) (string, error) {
	now := m.nowFunc()
	expiresAt := now.Add(m.refreshTokenExpiry)
	claims := &Claims{
		TenantID: tenant.ID,
		Kind:     KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}
	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.IssueRefreshToken] sign")
	}
	if _, err := m.store.Create(ctx, tenant.ID, signed, expiresAt); err != nil {
		return "", errors.Wrap(err, "[Manager.IssueRefreshToken] store create")
	}
	return signed, nil
}

// VerifyAccessToken checks signature, expiry and the token-kind tag.
func (m *Manager) VerifyAccessToken(raw string) (*Claims, error) {
	claims, err := m.parse(raw, KindAccess)
	if err != nil {
		metrics.TokenVerifications.WithLabelValues(string(KindAccess), "invalid").Inc()
		return nil, ErrInvalidToken
	}
	metrics.TokenVerifications.WithLabelValues(string(KindAccess), "ok").Inc()
	return claims, nil
}

// VerifyRefreshToken checks signature, expiry, the token-kind tag AND the
// matching store row. All four are mandatory: revocation only exists in the
// store, and a store row must never outlive a shorter signed TTL.
func (m *Manager) VerifyRefreshToken(ctx context.Context, raw string) (*Claims, error) {
	claims, err := m.parse(raw, KindRefresh)
	if err != nil {
		metrics.TokenVerifications.WithLabelValues(string(KindRefresh), "invalid").Inc()
		return nil, ErrInvalidToken
	}
	cred, err := m.store.Get(ctx, raw)
	if err != nil {
		m.log.Debug().Err(err).Msg("refresh token has no store row")
		metrics.TokenVerifications.WithLabelValues(string(KindRefresh), "invalid").Inc()
		return nil, ErrInvalidToken
	}
	if !cred.Valid(m.nowFunc()) {
		m.log.Debug().Str("tenant_id", cred.TenantID).Msg("refresh token revoked or expired in store")
		metrics.TokenVerifications.WithLabelValues(string(KindRefresh), "invalid").Inc()
		return nil, ErrInvalidToken
	}
	metrics.TokenVerifications.WithLabelValues(string(KindRefresh), "ok").Inc()
	return claims, nil
}

// Rotate exchanges a refresh credential for a fresh access/refresh pair. The
// old store row is revoked with a compare-and-set before anything new is
// issued: of two concurrent rotations of the same token, exactly one wins
// the flip and the other fails with ErrInvalidToken.
func (m *Manager) Rotate(ctx context.Context, raw string) (accessToken, refreshToken string, err error) {
	claims, err := m.VerifyRefreshToken(ctx, raw)
	if err != nil {
		metrics.RefreshRotations.WithLabelValues("invalid").Inc()
		return "", "", ErrInvalidToken
	}

	tenant, err := m.directory.GetByID(ctx, claims.TenantID)
	if err != nil || !tenant.Active {
		m.log.Debug().Str("tenant_id", claims.TenantID).Msg("rotation for missing or inactive tenant")
		metrics.RefreshRotations.WithLabelValues("invalid").Inc()
		return "", "", ErrInvalidToken
	}

	flipped, err := m.store.Revoke(ctx, raw)
	if err != nil {
		metrics.RefreshRotations.WithLabelValues("error").Inc()
		return "", "", errors.Wrap(err, "[Manager.Rotate] revoke")
	}
	if !flipped {
		// Lost the race: someone else already consumed this credential.
		m.log.Debug().Str("tenant_id", claims.TenantID).Msg("rotation replay detected")
		metrics.RefreshRotations.WithLabelValues("replay").Inc()
		return "", "", ErrInvalidToken
	}

	accessToken, err = m.IssueAccessToken(tenant)
	if err != nil {
		metrics.RefreshRotations.WithLabelValues("error").Inc()
		return "", "", errors.Wrap(err, "[Manager.Rotate] issue access token")
	}
	refreshToken, err = m.IssueRefreshToken(ctx, tenant)
	if err != nil {
		metrics.RefreshRotations.WithLabelValues("error").Inc()
		return "", "", errors.Wrap(err, "[Manager.Rotate] issue refresh token")
	}
	metrics.RefreshRotations.WithLabelValues("ok").Inc()
	return accessToken, refreshToken, nil
}

// RevokeSession permanently invalidates a single refresh credential.
// Idempotent: revoking an unknown or already-revoked token is a no-op.
func (m *Manager) RevokeSession(ctx context.Context, raw string) error {
	if _, err := m.store.Revoke(ctx, raw); err != nil {
		return errors.Wrap(err, "[Manager.RevokeSession] revoke")
	}
	return nil
}

// RevokeAllSessions invalidates every refresh credential the tenant holds.
// Used on logout-everywhere and tenant deactivation.
func (m *Manager) RevokeAllSessions(ctx context.Context, tenantID string) error {
	if err := m.store.RevokeAllForTenant(ctx, tenantID); err != nil {
		return errors.Wrap(err, "[Manager.RevokeAllSessions] revoke all")
	}
	return nil
}

func (m *Manager) parse(raw string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, m.signer.GetVerificationKey, jwt.WithTimeFunc(m.nowFunc))
	if err != nil {
		m.log.Debug().Err(err).Msg("token parse failed")
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		m.log.Debug().Str("want", string(kind)).Str("got", string(claims.Kind)).Msg("token kind mismatch")
		return nil, ErrInvalidToken
	}
	return claims, nil
}
