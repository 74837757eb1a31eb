package logger

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/loghub/properties"
	"github.com/kbukum/loghub/testutil"
)

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC)

// newTestService returns a service writing its console output and its
// diagnostics to buffers, with a fixed clock.
func newTestService(t *testing.T, opts ...Option) (*Service, *testutil.SyncBuffer, *testutil.SyncBuffer) {
	t.Helper()
	out, diag := &testutil.SyncBuffer{}, &testutil.SyncBuffer{}
	base := []Option{
		WithStdout(out),
		WithDiagnostics(diag),
		WithClock(func() time.Time { return testTime }),
	}
	svc := New(append(base, opts...)...)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc, out, diag
}

// props builds a property bag from alternating keys and values.
func props(kvs ...string) *properties.Properties {
	p := properties.New()
	for i := 0; i+1 < len(kvs); i += 2 {
		p.Set(kvs[i], kvs[i+1])
	}
	return p
}

func mustConfigure(t *testing.T, svc *Service, kvs ...string) {
	t.Helper()
	if err := svc.Configure(props(kvs...)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
}
