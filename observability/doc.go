// Package observability connects the logging service to OpenTelemetry.
//
// Metrics are recorded on a meter named [MeterName]:
//
//	m, err := observability.NewMetrics(otel.GetMeterProvider().Meter(observability.MeterName))
//	m.RecordEmitted(ctx, "INFO")
//
// Programs that own their process can export the metrics over OTLP HTTP:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("app"))
//	svc := logger.New(logger.WithMeterProvider(mp))
//	defer mp.Shutdown(ctx)
//
// Trace correlation reads the active span from a context:
//
//	traceID, spanID := observability.SpanIDs(ctx)
package observability
