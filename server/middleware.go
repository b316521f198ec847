package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bizgate/go-tenant-auth/tenants"
	"github.com/bizgate/go-tenant-auth/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyTenant stores the authenticated *tenants.Tenant
	ContextKeyTenant ContextKey = "tenant"
	// ContextKeyClaims stores the parsed access token claims
	ContextKeyClaims ContextKey = "claims"
)

// TenantFromContext returns the tenant attached by RequireAuth, or nil when
// the request was not authenticated.
func TenantFromContext(ctx context.Context) *tenants.Tenant {
	t, _ := ctx.Value(ContextKeyTenant).(*tenants.Tenant)
	return t
}

// ClaimsFromContext returns the access token claims attached by RequireAuth.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	c, _ := ctx.Value(ContextKeyClaims).(*token.Claims)
	return c
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth validates the Bearer access token, resolves the tenant it was
// issued to and attaches both to the request context. Requests fail with 401
// before the wrapped handler runs; a deactivated tenant fails even when its
// token has not yet expired.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			respondError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
			return
		}

		claims, err := s.tokens.VerifyAccessToken(raw)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		tenant, err := s.repos.Tenants.GetByID(r.Context(), claims.TenantID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if !tenant.Active {
			respondError(w, http.StatusUnauthorized, "account deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyTenant, tenant)
		ctx = context.WithValue(ctx, ContextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the tenant and claims when a valid Bearer token is
// present and silently continues without them when it is not.
func (s *Server) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokens.VerifyAccessToken(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		tenant, err := s.repos.Tenants.GetByID(r.Context(), claims.TenantID)
		if err != nil || !tenant.Active {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyTenant, tenant)
		ctx = context.WithValue(ctx, ContextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
