package observability

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/loghub/testutil"
)

func TestMetrics(t *testing.T) {
	provider, reader := testutil.NewMeterProvider()

	m, err := NewMetrics(Meter(provider))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	m.RecordEmitted(ctx, "INFO")
	m.RecordEmitted(ctx, "INFO")
	m.RecordEmitted(ctx, "ERROR")
	m.RecordFailure(ctx, "console")
	m.RecordDropped(ctx, "file")

	tests := []struct {
		name, key, value string
		want             int64
	}{
		{MetricRecordsEmitted, AttrLevel, "INFO", 2},
		{MetricRecordsEmitted, AttrLevel, "ERROR", 1},
		{MetricAppenderFailures, AttrAppender, "console", 1},
		{MetricAsyncDropped, AttrAppender, "file", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name+"/"+tc.value, func(t *testing.T) {
			if got := testutil.CounterValue(t, reader, tc.name, tc.key, tc.value); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	if m == nil {
		t.Fatal("expected non-nil metrics")
	}
	ctx := context.Background()
	m.RecordEmitted(ctx, "DEBUG")
	m.RecordFailure(ctx, "x")
	m.RecordDropped(ctx, "x")
}

func TestSpanIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	traceID, spanID := SpanIDs(ctx)
	if traceID != span.SpanContext().TraceID().String() {
		t.Errorf("trace id = %q, want %q", traceID, span.SpanContext().TraceID())
	}
	if spanID != span.SpanContext().SpanID().String() {
		t.Errorf("span id = %q, want %q", spanID, span.SpanContext().SpanID())
	}
}

func TestSpanIDsWithoutSpan(t *testing.T) {
	traceID, spanID := SpanIDs(context.Background())
	if traceID != "" || spanID != "" {
		t.Errorf("expected empty ids, got %q %q", traceID, spanID)
	}
}
