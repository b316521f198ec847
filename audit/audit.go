// Package audit provides the best-effort event sink consumed by the auth
// core. Recording never blocks and never fails the calling operation:
// failures are logged internally and swallowed.
package audit

import (
	"context"

	"github.com/rs/zerolog"
)

// Sink accepts structured audit events, fire-and-forget.
type Sink interface {
	Record(ctx context.Context, event string, fields map[string]any)
}

// ZerologSink writes audit events as structured log lines.
type ZerologSink struct {
	log zerolog.Logger
}

var _ Sink = (*ZerologSink)(nil)

// NewZerologSink creates a sink writing through the given logger.
func NewZerologSink(log zerolog.Logger) *ZerologSink {
	return &ZerologSink{
		log: log.With().Str("type", "audit").Logger(),
	}
}

func (s *ZerologSink) Record(_ context.Context, event string, fields map[string]any) {
	evt := s.log.Info().Str("event", event)
	for k, v := range fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg("audit")
}

// NopSink discards every event. Useful in tests.
type NopSink struct{}

var _ Sink = NopSink{}

func (NopSink) Record(context.Context, string, map[string]any) {}
