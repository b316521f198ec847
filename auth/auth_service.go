package auth

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/bizgate/go-tenant-auth/audit"
	"github.com/bizgate/go-tenant-auth/internal/metrics"
	"github.com/bizgate/go-tenant-auth/subscriptions"
	"github.com/bizgate/go-tenant-auth/tenants"
	"github.com/bizgate/go-tenant-auth/token"
)

// Repos holds all repository dependencies for the Service.
type Repos struct {
	Tenants       tenants.Repo       // The tenant directory
	Subscriptions subscriptions.Repo // Subscription record store
}

// Service is the authentication and subscription-validity engine: it owns
// login, refresh-token rotation, logout and the lazy evaluation of
// subscription state on every read.
type Service struct {
	repos   Repos
	tokens  *token.Manager
	sink    audit.Sink
	nowTime func() time.Time // nowTime function (injectable for testing)
	log     zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService initializes a new Service with required dependencies. Optional
// configuration can be provided via options (e.g., WithNowTime for testing).
func NewService(repos Repos, tokens *token.Manager, sink audit.Sink, options ...ServiceOption) (*Service, error) {
	if repos.Tenants == nil {
		return nil, errors.New("[NewService] Tenants repo is required")
	}
	if repos.Subscriptions == nil {
		return nil, errors.New("[NewService] Subscriptions repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}
	if sink == nil {
		sink = audit.NopSink{}
	}

	svc := &Service{
		repos:   repos,
		tokens:  tokens,
		sink:    sink,
		nowTime: time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc, nil
}

// TokenPair is the pair of credentials handed to a client after login or
// refresh, with the access credential's lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// LoginResult is the full response to a successful login.
type LoginResult struct {
	Tenant       tenants.Summary        `json:"company"`
	Subscription subscriptions.Snapshot `json:"subscription"`
	Tokens       TokenPair              `json:"tokens"`
}

// StatusResult reports the current subscription validity for a tenant.
type StatusResult struct {
	IsValid       bool                 `json:"isValid"`
	Status        subscriptions.Status `json:"status"`
	DaysRemaining int                  `json:"daysRemaining"`
	EndDate       time.Time            `json:"endDate"`
}

// Login authenticates a tenant by identifier and password, lazily evaluates
// its subscription and issues a token pair. A login may succeed with an
// expired subscription: the snapshot tells the client, and the subscription
// gates features, not authentication. Bad identifier and bad password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	tenant, err := s.repos.Tenants.GetByIdentifier(ctx, identifier)
	if err != nil {
		if stderrors.Is(err, tenants.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("unauthorized").Inc()
			s.sink.Record(ctx, "login.failed", map[string]any{"identifier": identifier, "reason": "unknown_identifier"})
			return nil, ErrUnauthorized
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, storeFailure(err, "[Service.Login] tenant lookup")
	}

	if !tenants.CheckPasswordHash(password, tenant.PasswordHash) {
		metrics.LoginAttempts.WithLabelValues("unauthorized").Inc()
		s.sink.Record(ctx, "login.failed", map[string]any{"tenant_id": tenant.ID, "reason": "bad_password"})
		return nil, ErrUnauthorized
	}

	if !tenant.Active {
		metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		s.sink.Record(ctx, "login.failed", map[string]any{"tenant_id": tenant.ID, "reason": "inactive"})
		return nil, ErrTenantInactive
	}

	sub, err := s.evaluateSubscription(ctx, tenant.ID)
	if err != nil {
		if stderrors.Is(err, ErrNoSubscription) {
			metrics.LoginAttempts.WithLabelValues("no_subscription").Inc()
			s.sink.Record(ctx, "login.failed", map[string]any{"tenant_id": tenant.ID, "reason": "no_subscription"})
		} else {
			metrics.LoginAttempts.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	pair, err := s.issuePair(ctx, tenant)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.sink.Record(ctx, "login.success", map[string]any{"tenant_id": tenant.ID})

	return &LoginResult{
		Tenant:       tenant.Summary(),
		Subscription: sub.Snapshot(s.nowTime()),
		Tokens:       pair,
	}, nil
}

// Refresh exchanges a refresh credential for a new pair. The rotation is
// single-use: replaying the old credential fails with ErrInvalidToken.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	accessToken, newRefreshToken, err := s.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		if stderrors.Is(err, token.ErrInvalidToken) {
			s.sink.Record(ctx, "refresh.failed", nil)
			return nil, ErrInvalidToken
		}
		return nil, storeFailure(err, "[Service.Refresh] rotate")
	}
	s.sink.Record(ctx, "refresh.success", nil)
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int(s.tokens.AccessTokenExpiry().Seconds()),
	}, nil
}

// Logout revokes every refresh credential the tenant holds. Idempotent by
// design so client retries are always safe. Already-issued access tokens
// stay valid until natural expiry; the middleware's directory re-check is
// what bounds that window.
func (s *Service) Logout(ctx context.Context, tenantID string) error {
	if err := s.tokens.RevokeAllSessions(ctx, tenantID); err != nil {
		return storeFailure(err, "[Service.Logout] revoke all sessions")
	}
	s.sink.Record(ctx, "logout", map[string]any{"tenant_id": tenantID})
	return nil
}

// VerifyIdentifier is the pre-login lookup: it confirms the identifier maps
// to an active tenant and returns the branding summary for the login screen.
func (s *Service) VerifyIdentifier(ctx context.Context, identifier string) (*tenants.Summary, error) {
	tenant, err := s.repos.Tenants.GetByIdentifier(ctx, identifier)
	if err != nil {
		if stderrors.Is(err, tenants.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, storeFailure(err, "[Service.VerifyIdentifier] tenant lookup")
	}
	if !tenant.Active {
		return nil, ErrTenantInactive
	}
	summary := tenant.Summary()
	return &summary, nil
}

// SubscriptionStatus lazily evaluates and reports the tenant's subscription
// validity.
func (s *Service) SubscriptionStatus(ctx context.Context, tenantID string) (*StatusResult, error) {
	sub, err := s.evaluateSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.nowTime()
	return &StatusResult{
		IsValid:       subscriptions.IsValid(*sub, now),
		Status:        sub.Status,
		DaysRemaining: subscriptions.DaysRemaining(*sub, now),
		EndDate:       sub.EndDate,
	}, nil
}

// Subscription returns the tenant's lazily-evaluated subscription snapshot.
func (s *Service) Subscription(ctx context.Context, tenantID string) (*subscriptions.Snapshot, error) {
	sub, err := s.evaluateSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	snapshot := sub.Snapshot(s.nowTime())
	return &snapshot, nil
}

// UsageLimits returns the numeric ceilings configured on the tenant's plan.
func (s *Service) UsageLimits(ctx context.Context, tenantID string) (map[string]int, error) {
	sub, err := s.repos.Subscriptions.GetByTenantID(ctx, tenantID)
	if err != nil {
		if stderrors.Is(err, subscriptions.ErrNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, storeFailure(err, "[Service.UsageLimits] subscription lookup")
	}
	return sub.Limits, nil
}

// issuePair signs an access token and a store-backed refresh token for the
// tenant.
func (s *Service) issuePair(ctx context.Context, tenant *tenants.Tenant) (TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(tenant)
	if err != nil {
		return TokenPair{}, storeFailure(err, "[Service.issuePair] issue access token")
	}
	refreshToken, err := s.tokens.IssueRefreshToken(ctx, tenant)
	if err != nil {
		return TokenPair{}, storeFailure(err, "[Service.issuePair] issue refresh token")
	}
	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokens.AccessTokenExpiry().Seconds()),
	}, nil
}

// evaluateSubscription loads the tenant's subscription, applies the lazy
// active->expired downgrade and persists the flip when one occurred.
func (s *Service) evaluateSubscription(ctx context.Context, tenantID string) (*subscriptions.Subscription, error) {
	sub, err := s.repos.Subscriptions.GetByTenantID(ctx, tenantID)
	if err != nil {
		if stderrors.Is(err, subscriptions.ErrNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, storeFailure(err, "[Service.evaluateSubscription] subscription lookup")
	}

	evaluated, changed := subscriptions.Evaluate(*sub, s.nowTime())
	if changed {
		if err := s.repos.Subscriptions.UpdateStatus(ctx, evaluated.ID, evaluated.Status); err != nil {
			return nil, storeFailure(err, "[Service.evaluateSubscription] persist status")
		}
		s.sink.Record(ctx, "subscription.expired", map[string]any{"tenant_id": tenantID, "subscription_id": evaluated.ID})
	}
	return &evaluated, nil
}

// storeFailure collapses collaborator I/O failures into the retryable
// ErrStoreUnavailable while keeping the underlying detail in the message.
func storeFailure(err error, op string) error {
	return errors.Wrapf(ErrStoreUnavailable, "%s: %v", op, err)
}
