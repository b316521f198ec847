package auth

import "errors"

// The service's failure taxonomy. Verification failures never distinguish
// cause externally; login failures never reveal whether the identifier or
// the password was wrong.
var (
	// ErrUnauthorized covers bad credentials at login. User-correctable.
	ErrUnauthorized = errors.New("invalid identifier or password")

	// ErrTenantInactive means the tenant exists but may not authenticate.
	ErrTenantInactive = errors.New("tenant is not active")

	// ErrTenantNotFound means no tenant matches the given identifier.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNoSubscription is an administrative condition: the tenant has no
	// subscription row at all. Not user-correctable.
	ErrNoSubscription = errors.New("tenant has no subscription")

	// ErrInvalidToken covers every access/refresh verification failure. The
	// client must re-authenticate.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStoreUnavailable is a collaborator I/O failure. Retryable; surfaced
	// as a generic server error.
	ErrStoreUnavailable = errors.New("store unavailable")
)
