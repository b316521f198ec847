package tenantrepofakes

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bizgate/go-tenant-auth/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

// FakeTenantRepo is an in-memory tenant directory for tests and local dev.
type FakeTenantRepo struct {
	byID         map[string]*tenants.Tenant
	byIdentifier map[string]string // identifier -> tenant ID
	lock         sync.RWMutex
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		byID:         make(map[string]*tenants.Tenant),
		byIdentifier: make(map[string]string),
	}
}

func (tr *FakeTenantRepo) Upsert(_ context.Context, tenant *tenants.Tenant) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if tenant.ID == "" {
		tenant.ID = uuid.New().String()
	}
	tr.byID[tenant.ID] = tenant
	tr.byIdentifier[tenant.Identifier] = tenant.ID
	return nil
}

func (tr *FakeTenantRepo) GetByID(_ context.Context, id string) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	t, ok := tr.byID[id]
	if !ok {
		return nil, tenants.ErrNotFound
	}
	return t, nil
}

func (tr *FakeTenantRepo) GetByIdentifier(_ context.Context, identifier string) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	id, ok := tr.byIdentifier[identifier]
	if !ok {
		return nil, tenants.ErrNotFound
	}
	return tr.byID[id], nil
}
