package tenants

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no tenant matches the given key.
var ErrNotFound = errors.New("tenant not found")

// Repo is the tenant directory: the authentication core looks tenants up by
// identifier or id and reads the active flag and credential hash. Writes only
// happen through administrative tooling and test seeding.
type Repo interface {
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Upsert(ctx context.Context, tenant *Tenant) error
}
