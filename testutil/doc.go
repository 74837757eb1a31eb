// Package testutil provides helpers shared by loghub tests and by
// applications that test code logging through loghub.
//
// Metrics recorded by a service can be read back with a manual reader:
//
//	provider, reader := testutil.NewMeterProvider()
//	svc := logger.New(logger.WithMeterProvider(provider))
//	...
//	n := testutil.CounterValue(t, reader, "loghub.records.emitted", "level", "INFO")
//
// Output streams written from several goroutines should be captured in a
// [SyncBuffer].
package testutil
