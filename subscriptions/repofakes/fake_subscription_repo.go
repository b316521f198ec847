package subscriptionrepofakes

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bizgate/go-tenant-auth/subscriptions"
)

var _ subscriptions.Repo = (*FakeSubscriptionRepo)(nil)

// FakeSubscriptionRepo is an in-memory subscription record store for tests
// and local dev.
type FakeSubscriptionRepo struct {
	byTenant map[string]*subscriptions.Subscription
	lock     sync.RWMutex
}

func NewFakeSubscriptionRepo() *FakeSubscriptionRepo {
	return &FakeSubscriptionRepo{
		byTenant: make(map[string]*subscriptions.Subscription),
	}
}

func (sr *FakeSubscriptionRepo) Upsert(_ context.Context, sub *subscriptions.Subscription) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	sr.byTenant[sub.TenantID] = sub
	return nil
}

func (sr *FakeSubscriptionRepo) GetByTenantID(_ context.Context, tenantID string) (*subscriptions.Subscription, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	sub, ok := sr.byTenant[tenantID]
	if !ok {
		return nil, subscriptions.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (sr *FakeSubscriptionRepo) UpdateStatus(_ context.Context, id string, status subscriptions.Status) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	for _, sub := range sr.byTenant {
		if sub.ID == id {
			sub.Status = status
			return nil
		}
	}
	return subscriptions.ErrNotFound
}
