package refresh

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bizgate/go-tenant-auth/internal/metrics"
)

// Sweeper periodically deletes expired refresh credentials. The sweep only
// ever removes rows already past expiry, so it needs no coordination with
// issuance or revocation.
type Sweeper struct {
	store    Store
	interval time.Duration
	nowFunc  func() time.Time
	log      zerolog.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweeperNowFunc overrides the clock (primarily for testing).
func WithSweeperNowFunc(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.nowFunc = now
	}
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(store Store, interval time.Duration, log zerolog.Logger, options ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: interval,
		nowFunc:  time.Now,
		log:      log.With().Str("component", "refresh-sweeper").Logger(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Run blocks, sweeping on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	removed, err := s.store.SweepExpired(ctx, s.nowFunc())
	if err != nil {
		s.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if removed > 0 {
		metrics.TokensSwept.Add(float64(removed))
		s.log.Info().Int("removed", removed).Msg("swept expired refresh credentials")
	}
}
