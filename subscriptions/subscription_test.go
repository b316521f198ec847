package subscriptions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizgate/go-tenant-auth/subscriptions"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSubscription(status subscriptions.Status, end time.Time) subscriptions.Subscription {
	return subscriptions.Subscription{
		ID:        "sub-1",
		TenantID:  "tenant-1",
		Plan:      subscriptions.PlanStandard,
		Status:    status,
		StartDate: end.AddDate(-1, 0, 0),
		EndDate:   end,
		Features:  []string{"reports", "exports"},
		Limits:    map[string]int{"users": 10, "projects": 0},
	}
}

func TestEvaluateDowngradesLapsedActive(t *testing.T) {
	sub := testSubscription(subscriptions.StatusActive, date(2025, time.January, 1))
	now := date(2025, time.February, 1)

	updated, changed := subscriptions.Evaluate(sub, now)
	require.True(t, changed)
	require.Equal(t, subscriptions.StatusExpired, updated.Status)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	sub := testSubscription(subscriptions.StatusActive, date(2025, time.January, 1))
	now := date(2025, time.February, 1)

	updated, changed := subscriptions.Evaluate(sub, now)
	require.True(t, changed)

	again, changed := subscriptions.Evaluate(updated, now)
	require.False(t, changed)
	require.Equal(t, updated, again)
}

func TestEvaluateOnlyTouchesActive(t *testing.T) {
	past := date(2025, time.January, 1)
	now := date(2025, time.February, 1)

	for _, status := range []subscriptions.Status{
		subscriptions.StatusTrial,
		subscriptions.StatusExpired,
		subscriptions.StatusSuspended,
		subscriptions.StatusCancelled,
	} {
		sub := testSubscription(status, past)
		updated, changed := subscriptions.Evaluate(sub, now)
		require.False(t, changed, "status %s", status)
		require.Equal(t, status, updated.Status)
	}
}

func TestEvaluateEndDateIsInclusive(t *testing.T) {
	end := date(2025, time.June, 15)
	sub := testSubscription(subscriptions.StatusActive, end)

	// Any moment on the end date itself still counts.
	sameDay := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	_, changed := subscriptions.Evaluate(sub, sameDay)
	require.False(t, changed)

	nextDay := date(2025, time.June, 16)
	_, changed = subscriptions.Evaluate(sub, nextDay)
	require.True(t, changed)
}

func TestIsValid(t *testing.T) {
	end := date(2025, time.June, 15)
	now := date(2025, time.June, 1)

	require.True(t, subscriptions.IsValid(testSubscription(subscriptions.StatusActive, end), now))
	require.True(t, subscriptions.IsValid(testSubscription(subscriptions.StatusTrial, end), now))
	require.False(t, subscriptions.IsValid(testSubscription(subscriptions.StatusSuspended, end), now))
	require.False(t, subscriptions.IsValid(testSubscription(subscriptions.StatusCancelled, end), now))
	require.False(t, subscriptions.IsValid(testSubscription(subscriptions.StatusExpired, end), now))

	// Active but past the inclusive end date.
	lapsed := testSubscription(subscriptions.StatusActive, date(2025, time.January, 1))
	require.False(t, subscriptions.IsValid(lapsed, now))

	// The end date itself is still valid.
	require.True(t, subscriptions.IsValid(testSubscription(subscriptions.StatusActive, end), end))
}

func TestDaysRemaining(t *testing.T) {
	end := date(2025, time.June, 15)
	sub := testSubscription(subscriptions.StatusActive, end)

	require.Equal(t, 14, subscriptions.DaysRemaining(sub, date(2025, time.June, 1)))
	require.Equal(t, 1, subscriptions.DaysRemaining(sub, date(2025, time.June, 14)))
	require.Equal(t, 0, subscriptions.DaysRemaining(sub, end))
	require.Equal(t, 0, subscriptions.DaysRemaining(sub, date(2025, time.July, 1)))

	// Partial days round up.
	require.Equal(t, 1, subscriptions.DaysRemaining(sub, time.Date(2025, time.June, 14, 12, 0, 0, 0, time.UTC)))
}

func TestDaysRemainingNeverIncreases(t *testing.T) {
	sub := testSubscription(subscriptions.StatusActive, date(2025, time.June, 15))

	prev := subscriptions.DaysRemaining(sub, date(2025, time.May, 1))
	for now := date(2025, time.May, 2); now.Before(date(2025, time.July, 1)); now = now.AddDate(0, 0, 1) {
		cur := subscriptions.DaysRemaining(sub, now)
		require.LessOrEqual(t, cur, prev)
		require.GreaterOrEqual(t, cur, 0)
		prev = cur
	}
}

func TestHasFeature(t *testing.T) {
	sub := testSubscription(subscriptions.StatusActive, date(2025, time.June, 15))

	require.True(t, subscriptions.HasFeature(sub, "reports"))
	require.False(t, subscriptions.HasFeature(sub, "sso"))
}

func TestCheckLimit(t *testing.T) {
	sub := testSubscription(subscriptions.StatusActive, date(2025, time.June, 15))

	require.True(t, subscriptions.CheckLimit(sub, "users", 9))
	require.False(t, subscriptions.CheckLimit(sub, "users", 10))
	require.False(t, subscriptions.CheckLimit(sub, "users", 11))

	// Zero or missing ceilings never block.
	require.True(t, subscriptions.CheckLimit(sub, "projects", 1000))
	require.True(t, subscriptions.CheckLimit(sub, "storage", 1000))
}

func TestSnapshotCarriesDaysRemaining(t *testing.T) {
	sub := testSubscription(subscriptions.StatusActive, date(2025, time.June, 15))
	snap := sub.Snapshot(date(2025, time.June, 1))

	require.Equal(t, sub.ID, snap.ID)
	require.Equal(t, sub.Plan, snap.Plan)
	require.Equal(t, 14, snap.DaysRemaining)
}
