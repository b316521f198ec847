package subscriptions

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a tenant has no subscription record.
var ErrNotFound = errors.New("subscription not found")

// Repo persists subscription records. The state machine itself never writes;
// callers persist the downgraded status when Evaluate reports a change.
type Repo interface {
	GetByTenantID(ctx context.Context, tenantID string) (*Subscription, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Upsert(ctx context.Context, sub *Subscription) error
}
