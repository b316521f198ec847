package pg

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/bizgate/go-tenant-auth/tenants"
)

// TenantStore implements the tenant directory on Postgres.
type TenantStore struct {
	db *sql.DB
}

var _ tenants.Repo = (*TenantStore)(nil)

const tenantColumns = `id, identifier, password_hash, name, is_active, logo, primary_color, secondary_color, theme, created_at`

func (s *TenantStore) GetByIdentifier(ctx context.Context, identifier string) (*tenants.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE identifier = $1 LIMIT 1`
	return scanTenant(s.db.QueryRowContext(ctx, q, identifier))
}

func (s *TenantStore) GetByID(ctx context.Context, id string) (*tenants.Tenant, error) {
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 LIMIT 1`
	return scanTenant(s.db.QueryRowContext(ctx, q, id))
}

func (s *TenantStore) Upsert(ctx context.Context, t *tenants.Tenant) error {
	const q = `
INSERT INTO tenants (id, identifier, password_hash, name, is_active, logo, primary_color, secondary_color, theme)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (identifier) DO UPDATE
SET password_hash = EXCLUDED.password_hash,
    name = EXCLUDED.name,
    is_active = EXCLUDED.is_active,
    logo = EXCLUDED.logo,
    primary_color = EXCLUDED.primary_color,
    secondary_color = EXCLUDED.secondary_color,
    theme = EXCLUDED.theme
RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, q,
		t.ID, t.Identifier, t.PasswordHash, t.Name, t.Active,
		t.Logo, t.PrimaryColor, t.SecondaryColor, t.Theme).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "[pg.TenantStore.Upsert] upsert tenant")
	}
	return nil
}

func scanTenant(row *sql.Row) (*tenants.Tenant, error) {
	var t tenants.Tenant
	var logo, primary, secondary sql.NullString
	err := row.Scan(&t.ID, &t.Identifier, &t.PasswordHash, &t.Name, &t.Active,
		&logo, &primary, &secondary, &t.Theme, &t.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, tenants.ErrNotFound
		}
		return nil, errors.Wrap(err, "[pg.scanTenant] scan")
	}
	t.Logo = logo.String
	t.PrimaryColor = primary.String
	t.SecondaryColor = secondary.String
	return &t, nil
}
