package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// SpanIDs returns the hex trace and span ids of the span in ctx. Both are
// empty when ctx carries no valid span context.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	if ctx == nil {
		return "", ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
