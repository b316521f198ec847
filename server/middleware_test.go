package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizgate/go-tenant-auth/server"
)

func TestOptionalAuthAttachesTenantWhenTokenValid(t *testing.T) {
	f := setupServerFixture(t)
	result := f.login(t)

	var seenName string
	handler := f.server.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tenant := server.TenantFromContext(r.Context()); tenant != nil {
			seenName = tenant.Name
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+result.Tokens.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Acme Corp", seenName)
}

func TestOptionalAuthContinuesWithoutToken(t *testing.T) {
	f := setupServerFixture(t)

	called := false
	handler := f.server.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Nil(t, server.TenantFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"", "Bearer garbage", "Basic dXNlcjpwYXNz", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		called = false
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "header %q", header)
		require.True(t, called, "header %q", header)
	}
}

func TestRequireAuthRejectsMalformedHeaders(t *testing.T) {
	f := setupServerFixture(t)

	handler := f.server.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, header := range []string{"", "Bearer", "Token abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestClaimsFromContext(t *testing.T) {
	f := setupServerFixture(t)
	result := f.login(t)

	handler := f.server.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := server.ClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		require.Equal(t, "tenant-1", claims.TenantID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+result.Tokens.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
