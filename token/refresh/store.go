package refresh

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no credential matches the given token string.
var ErrNotFound = errors.New("refresh credential not found")

// Credential is the server-side record of an issued refresh token. The token
// string is an unguessable secret and must never be logged. The revoked flag
// is monotonic: once flipped it never clears, so a credential that is revoked
// or past expiry can never become valid again.
type Credential struct {
	Token     string    // The opaque token string handed to the client
	TenantID  string    // Owning tenant
	ExpiresAt time.Time // Absolute expiry
	Revoked   bool
	IssuedAt  time.Time
}

// Valid reports whether the credential still grants a refresh at the given
// time.
func (c *Credential) Valid(now time.Time) bool {
	return !c.Revoked && now.Before(c.ExpiresAt)
}

// Store is the durable, queryable set of issued refresh credentials. Token
// uniqueness is a statistical property of the issuer's random generator, not
// enforced here.
type Store interface {
	// Create unconditionally inserts a new credential row.
	Create(ctx context.Context, tenantID, token string, expiresAt time.Time) (*Credential, error)

	// Get looks a credential up by its token string.
	Get(ctx context.Context, token string) (*Credential, error)

	// Revoke flips the revoked flag if and only if it is currently false and
	// reports whether a row actually changed. Missing or already-revoked
	// tokens are a no-op, not an error, so logout stays idempotent. The
	// compare-and-set semantics are what keep a raced refresh single-use.
	Revoke(ctx context.Context, token string) (bool, error)

	// RevokeAllForTenant flips revoked on every credential the tenant owns.
	RevokeAllForTenant(ctx context.Context, tenantID string) error

	// SweepExpired deletes rows whose expiry lies strictly before now and
	// returns the number removed. It never touches unexpired rows, so it is
	// safe to run concurrently with issuance and revocation.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
