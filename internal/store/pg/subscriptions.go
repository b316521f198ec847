package pg

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/bizgate/go-tenant-auth/subscriptions"
)

// SubscriptionStore implements the subscription record store on Postgres.
// Features and limits live in JSONB columns.
type SubscriptionStore struct {
	db *sql.DB
}

var _ subscriptions.Repo = (*SubscriptionStore)(nil)

func (s *SubscriptionStore) GetByTenantID(ctx context.Context, tenantID string) (*subscriptions.Subscription, error) {
	const q = `
SELECT id, tenant_id, plan, status, start_date, end_date, features, limits
FROM subscriptions
WHERE tenant_id = $1
LIMIT 1`
	var sub subscriptions.Subscription
	var features featureList
	var limits limitMap
	err := s.db.QueryRowContext(ctx, q, tenantID).
		Scan(&sub.ID, &sub.TenantID, &sub.Plan, &sub.Status, &sub.StartDate, &sub.EndDate, &features, &limits)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, subscriptions.ErrNotFound
		}
		return nil, errors.Wrap(err, "[pg.SubscriptionStore.GetByTenantID] scan")
	}
	sub.Features = features
	sub.Limits = limits
	return &sub, nil
}

func (s *SubscriptionStore) UpdateStatus(ctx context.Context, id string, status subscriptions.Status) error {
	const q = `UPDATE subscriptions SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := s.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return errors.Wrap(err, "[pg.SubscriptionStore.UpdateStatus] exec")
	}
	n, err := tag.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[pg.SubscriptionStore.UpdateStatus] rows affected")
	}
	if n == 0 {
		return subscriptions.ErrNotFound
	}
	return nil
}

func (s *SubscriptionStore) Upsert(ctx context.Context, sub *subscriptions.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, tenant_id, plan, status, start_date, end_date, features, limits)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (tenant_id) DO UPDATE
SET plan = EXCLUDED.plan,
    status = EXCLUDED.status,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    features = EXCLUDED.features,
    limits = EXCLUDED.limits,
    updated_at = now()
RETURNING id`
	err := s.db.QueryRowContext(ctx, q,
		sub.ID, sub.TenantID, sub.Plan, sub.Status, sub.StartDate, sub.EndDate,
		featureList(sub.Features), limitMap(sub.Limits)).
		Scan(&sub.ID)
	if err != nil {
		return errors.Wrap(err, "[pg.SubscriptionStore.Upsert] upsert subscription")
	}
	return nil
}

// featureList maps a JSONB array column to []string.
type featureList []string

func (f *featureList) Scan(src any) error {
	return scanJSON(src, f)
}

func (f featureList) Value() (driver.Value, error) {
	if f == nil {
		f = featureList{}
	}
	return json.Marshal(f)
}

// limitMap maps a JSONB object column to map[string]int.
type limitMap map[string]int

func (l *limitMap) Scan(src any) error {
	return scanJSON(src, l)
}

func (l limitMap) Value() (driver.Value, error) {
	if l == nil {
		l = limitMap{}
	}
	return json.Marshal(l)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.Errorf("unsupported JSONB source type %T", src)
	}
}
