package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bizgate/go-tenant-auth/audit"
)

func TestZerologSinkWritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := audit.NewZerologSink(zerolog.New(&buf))

	sink.Record(context.Background(), "login.success", map[string]any{"tenant_id": "tenant-1"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "audit", line["type"])
	require.Equal(t, "login.success", line["event"])
	require.Equal(t, "tenant-1", line["tenant_id"])
}

func TestZerologSinkHandlesNilFields(t *testing.T) {
	var buf bytes.Buffer
	sink := audit.NewZerologSink(zerolog.New(&buf))

	sink.Record(context.Background(), "refresh.failed", nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "refresh.failed", line["event"])
}

func TestNopSink(t *testing.T) {
	audit.NopSink{}.Record(context.Background(), "anything", map[string]any{"k": "v"})
}
