package pg

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"

	"github.com/bizgate/go-tenant-auth/token/refresh"
)

// RefreshTokenStore implements the refresh credential store on Postgres.
// One row per credential; secondary indexes on token and expires_at keep
// lookup and sweeping cheap.
type RefreshTokenStore struct {
	db *sql.DB
}

var _ refresh.Store = (*RefreshTokenStore)(nil)

func (s *RefreshTokenStore) Create(ctx context.Context, tenantID, token string, expiresAt time.Time) (*refresh.Credential, error) {
	const q = `
INSERT INTO refresh_tokens (id, tenant_id, token, expires_at, revoked)
VALUES (gen_random_uuid(), $1, $2, $3, FALSE)
RETURNING issued_at`
	cred := &refresh.Credential{
		Token:     token,
		TenantID:  tenantID,
		ExpiresAt: expiresAt,
	}
	if err := s.db.QueryRowContext(ctx, q, tenantID, token, expiresAt).Scan(&cred.IssuedAt); err != nil {
		return nil, errors.Wrap(err, "[pg.RefreshTokenStore.Create] insert")
	}
	return cred, nil
}

func (s *RefreshTokenStore) Get(ctx context.Context, token string) (*refresh.Credential, error) {
	const q = `
SELECT tenant_id, token, expires_at, revoked, issued_at
FROM refresh_tokens
WHERE token = $1
LIMIT 1`
	var cred refresh.Credential
	err := s.db.QueryRowContext(ctx, q, token).
		Scan(&cred.TenantID, &cred.Token, &cred.ExpiresAt, &cred.Revoked, &cred.IssuedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, refresh.ErrNotFound
		}
		return nil, errors.Wrap(err, "[pg.RefreshTokenStore.Get] scan")
	}
	return &cred, nil
}

// Revoke is a compare-and-set: the WHERE clause only matches unrevoked rows,
// so of two concurrent revocations exactly one observes RowsAffected == 1.
// That single-winner property is what keeps a raced refresh single-use.
func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) (bool, error) {
	const q = `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND revoked = FALSE`
	tag, err := s.db.ExecContext(ctx, q, token)
	if err != nil {
		return false, errors.Wrap(err, "[pg.RefreshTokenStore.Revoke] exec")
	}
	n, err := tag.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "[pg.RefreshTokenStore.Revoke] rows affected")
	}
	return n > 0, nil
}

func (s *RefreshTokenStore) RevokeAllForTenant(ctx context.Context, tenantID string) error {
	const q = `UPDATE refresh_tokens SET revoked = TRUE WHERE tenant_id = $1 AND revoked = FALSE`
	if _, err := s.db.ExecContext(ctx, q, tenantID); err != nil {
		return errors.Wrap(err, "[pg.RefreshTokenStore.RevokeAllForTenant] exec")
	}
	return nil
}

// SweepExpired only ever deletes rows already past expiry, so it runs safely
// alongside issuance and revocation without coordination.
func (s *RefreshTokenStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	const q = `DELETE FROM refresh_tokens WHERE expires_at < $1`
	tag, err := s.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, errors.Wrap(err, "[pg.RefreshTokenStore.SweepExpired] exec")
	}
	n, err := tag.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "[pg.RefreshTokenStore.SweepExpired] rows affected")
	}
	return int(n), nil
}
