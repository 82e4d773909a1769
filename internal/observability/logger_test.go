package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestLogger_AddsTraceIDsWhenSpanPresent(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.InfoContext(ctx, "book listed", "count", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	if rec["trace_id"] != traceID.String() {
		t.Fatalf("trace_id = %v, want %s", rec["trace_id"], traceID)
	}
	if rec["span_id"] != spanID.String() {
		t.Fatalf("span_id = %v, want %s", rec["span_id"], spanID)
	}
}

func TestLogger_DebugOnlyInDev(t *testing.T) {
	var prod, dev bytes.Buffer

	newLogger("prod", &prod).Debug("hidden")
	newLogger("dev", &dev).Debug("shown")

	if prod.Len() != 0 {
		t.Fatalf("prod logger should drop debug, got %s", prod.String())
	}
	if dev.Len() == 0 {
		t.Fatalf("dev logger should emit debug")
	}
}
