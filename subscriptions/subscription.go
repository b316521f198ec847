package subscriptions

import (
	"time"
)

// Plan is the commercial tier a tenant subscribed to.
type Plan string

const (
	PlanTrial      Plan = "trial"
	PlanBasic      Plan = "basic"
	PlanStandard   Plan = "standard"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// Status is the lifecycle state of a subscription. Only active->expired is
// automatic (applied lazily by Evaluate); every other transition is an
// explicit administrative action.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// Subscription describes what a tenant has paid for and until when. Dates
// carry day granularity; the end date is inclusive.
type Subscription struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenantId"`
	Plan      Plan           `json:"plan"`
	Status    Status         `json:"status"`
	StartDate time.Time      `json:"startDate"`
	EndDate   time.Time      `json:"endDate"`
	Features  []string       `json:"features"`
	Limits    map[string]int `json:"limits"`
}

// Snapshot is the client-facing view of a subscription, enriched with the
// derived days-remaining value.
type Snapshot struct {
	ID            string         `json:"id"`
	TenantID      string         `json:"tenantId"`
	Plan          Plan           `json:"plan"`
	Status        Status         `json:"status"`
	StartDate     time.Time      `json:"startDate"`
	EndDate       time.Time      `json:"endDate"`
	Features      []string       `json:"features"`
	Limits        map[string]int `json:"limits"`
	DaysRemaining int            `json:"daysRemaining"`
}

// Snapshot derives the client-facing view at the given time.
func (s Subscription) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		ID:            s.ID,
		TenantID:      s.TenantID,
		Plan:          s.Plan,
		Status:        s.Status,
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		Features:      s.Features,
		Limits:        s.Limits,
		DaysRemaining: DaysRemaining(s, now),
	}
}

// Evaluate applies the one automatic transition: an active subscription
// whose end date lies before today's date downgrades to expired. It returns
// the (possibly updated) record and whether a change occurred, so the caller
// can decide to persist. Evaluate is pure and idempotent: re-applying it to
// an already-expired record reports changed=false.
func Evaluate(s Subscription, now time.Time) (Subscription, bool) {
	if s.Status == StatusActive && dateBefore(s.EndDate, now) {
		s.Status = StatusExpired
		return s, true
	}
	return s, false
}

// IsValid reports whether the subscription currently grants access: the
// status must be active or trial and the inclusive end date must not have
// passed.
func IsValid(s Subscription, now time.Time) bool {
	if s.Status != StatusActive && s.Status != StatusTrial {
		return false
	}
	return !dateBefore(s.EndDate, now)
}

// DaysRemaining returns the number of days until the subscription ends,
// rounded up and floored at zero. It is monotonically non-increasing as now
// advances and never negative.
func DaysRemaining(s Subscription, now time.Time) int {
	remaining := s.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// HasFeature reports whether the subscription carries the named capability tag.
func HasFeature(s Subscription, feature string) bool {
	for _, f := range s.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// CheckLimit reports whether currentValue is still under the configured
// ceiling for limitName. A limit with no configured ceiling never blocks.
func CheckLimit(s Subscription, limitName string, currentValue int) bool {
	ceiling, ok := s.Limits[limitName]
	if !ok || ceiling == 0 {
		return true
	}
	return currentValue < ceiling
}

// dateBefore reports whether a's calendar day (UTC) is strictly before b's.
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return aDay.Before(bDay)
}
