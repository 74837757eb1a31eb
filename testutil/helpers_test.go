package testutil

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/loghub/appender"
)

func TestCounterValue(t *testing.T) {
	provider, reader := NewMeterProvider()
	counter, err := provider.Meter("test").Int64Counter("hits")
	if err != nil {
		t.Fatalf("failed to create counter: %v", err)
	}
	ctx := context.Background()
	counter.Add(ctx, 2, metric.WithAttributes(attribute.String("kind", "a")))
	counter.Add(ctx, 5, metric.WithAttributes(attribute.String("kind", "b")))

	if got := CounterValue(t, reader, "hits", "kind", "a"); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := CounterValue(t, reader, "missing", "kind", "a"); got != 0 {
		t.Errorf("expected 0 for unknown counter, got %d", got)
	}
}

func TestSyncBuffer(t *testing.T) {
	var buf SyncBuffer
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = buf.Write([]byte("line\n"))
		}()
	}
	wg.Wait()

	if n := len(buf.Lines()); n != 10 {
		t.Errorf("expected 10 lines, got %d", n)
	}
	buf.Reset()
	if buf.Lines() != nil {
		t.Error("expected no lines after Reset")
	}
}

func TestFailingAppender(t *testing.T) {
	f := NewFailingAppender("broken")
	if err := f.Write(appender.Record{Message: "x"}); err == nil {
		t.Error("expected an error")
	}

	f.Panic = true
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected a panic")
			}
		}()
		_ = f.Write(appender.Record{Message: "y"})
	}()

	if f.Writes() != 2 {
		t.Errorf("expected 2 writes, got %d", f.Writes())
	}
	_ = f.Close()
	if !f.Closed() {
		t.Error("expected Closed to report true")
	}
}
