package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/bizgate/go-tenant-auth/auth"
	"github.com/bizgate/go-tenant-auth/tenants"
)

type verifyRequest struct {
	Identifier string `json:"identifier"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyIdentifierHandler resolves an identifier to public branding so login
// screens can theme themselves before any credentials are entered.
func (s *Server) VerifyIdentifierHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := tenants.ValidateIdentifier(req.Identifier); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		summary, err := s.auth.VerifyIdentifier(r.Context(), req.Identifier)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		respondOK(w, "company verified", summary)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Identifier == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "identifier and password are required")
			return
		}

		result, err := s.auth.Login(r.Context(), req.Identifier, req.Password)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		respondOK(w, "login successful", result)
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.RefreshToken == "" {
			respondError(w, http.StatusBadRequest, "refreshToken is required")
			return
		}

		pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		respondOK(w, "token refreshed", pair)
	}
}

// LogoutHandler revokes every refresh credential the tenant holds. Access
// tokens already issued stay usable until they expire on their own.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := TenantFromContext(r.Context())
		if tenant == nil {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if err := s.auth.Logout(r.Context(), tenant.ID); err != nil {
			s.writeServiceError(w, err)
			return
		}
		respondOK(w, "logged out", nil)
	}
}

func (s *Server) SubscriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := TenantFromContext(r.Context())
		snapshot, err := s.auth.Subscription(r.Context(), tenant.ID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		respondOK(w, "", snapshot)
	}
}

func (s *Server) SubscriptionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := TenantFromContext(r.Context())
		status, err := s.auth.SubscriptionStatus(r.Context(), tenant.ID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		respondOK(w, "", status)
	}
}

func (s *Server) UsageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := TenantFromContext(r.Context())
		limits, err := s.auth.UsageLimits(r.Context(), tenant.ID)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		respondOK(w, "", limits)
	}
}

// ValidateHandler confirms the presented access token is still good. The
// auth middleware does all the work; reaching this handler is the answer.
func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := TenantFromContext(r.Context())
		respondOK(w, "token valid", tenant.Summary())
	}
}

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.pinger != nil {
			if err := s.pinger.Ping(r.Context()); err != nil {
				respondError(w, http.StatusServiceUnavailable, "database unreachable")
				return
			}
		}
		respondOK(w, "ok", nil)
	}
}

// writeServiceError maps auth service sentinels to HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without leaking the cause.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, auth.ErrTenantInactive):
		respondError(w, http.StatusForbidden, "account deactivated")
	case errors.Is(err, auth.ErrTenantNotFound):
		respondError(w, http.StatusNotFound, "company not found")
	case errors.Is(err, auth.ErrNoSubscription):
		respondError(w, http.StatusNotFound, "no subscription found")
	case errors.Is(err, auth.ErrStoreUnavailable):
		s.log.Error().Err(err).Msg("[Server] store unavailable")
		respondError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		s.log.Error().Err(err).Msg("[Server] unhandled service error")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
