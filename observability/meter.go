package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope of every loghub instrument.
const MeterName = "github.com/kbukum/loghub"

// Instrument names.
const (
	MetricRecordsEmitted   = "loghub.records.emitted"
	MetricAppenderFailures = "loghub.appender.failures"
	MetricAsyncDropped     = "loghub.async.dropped"
)

// Attribute keys.
const (
	AttrLevel    = "level"
	AttrAppender = "appender"
)

// Meter returns the loghub meter from provider, or from the global provider
// when provider is nil.
func Meter(provider metric.MeterProvider) metric.Meter {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	return provider.Meter(MeterName)
}

// Metrics holds the instruments of one logging service.
type Metrics struct {
	emitted  metric.Int64Counter
	failures metric.Int64Counter
	dropped  metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	emitted, err := meter.Int64Counter(MetricRecordsEmitted,
		metric.WithDescription("Records that passed the logger threshold"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRecordsEmitted, err)
	}

	failures, err := meter.Int64Counter(MetricAppenderFailures,
		metric.WithDescription("Appender writes that returned an error or panicked"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAppenderFailures, err)
	}

	dropped, err := meter.Int64Counter(MetricAsyncDropped,
		metric.WithDescription("Records dropped by a full async queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAsyncDropped, err)
	}

	return &Metrics{
		emitted:  emitted,
		failures: failures,
		dropped:  dropped,
	}, nil
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordEmitted counts one accepted record.
func (m *Metrics) RecordEmitted(ctx context.Context, level string) {
	m.emitted.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrLevel, level)))
}

// RecordFailure counts one failed appender write.
func (m *Metrics) RecordFailure(ctx context.Context, appender string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrAppender, appender)))
}

// RecordDropped counts one record dropped by an async appender.
func (m *Metrics) RecordDropped(ctx context.Context, appender string) {
	m.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrAppender, appender)))
}
