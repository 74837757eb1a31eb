package appender

import (
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/loghub/errors"
	"github.com/kbukum/loghub/severity"
)

func TestAsyncPreservesOrder(t *testing.T) {
	mem := NewMemory()
	a := NewAsync(mem, 16)

	for i := 0; i < 100; i++ {
		if err := a.Write(testRecord(severity.Info, fmt.Sprintf("m%d", i))); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := a.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	records := mem.Records()
	if len(records)+int(a.Dropped()) != 100 {
		t.Fatalf("expected 100 records written or dropped, got %d written, %d dropped", len(records), a.Dropped())
	}
	prev := -1
	for _, r := range records {
		var n int
		if _, err := fmt.Sscanf(r.Message, "m%d", &n); err != nil {
			t.Fatalf("unexpected message %q", r.Message)
		}
		if n <= prev {
			t.Fatalf("records out of order: m%d after m%d", n, prev)
		}
		prev = n
	}
	if mem.Flushes() != 1 {
		t.Errorf("expected inner flush, got %d", mem.Flushes())
	}
}

// blockingAppender holds every Write until release is closed.
type blockingAppender struct {
	*Memory
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingAppender() *blockingAppender {
	return &blockingAppender{
		Memory:  NewMemory(WithName("blocking")),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (b *blockingAppender) Write(r Record) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.Memory.Write(r)
}

func TestAsyncDropsWhenFull(t *testing.T) {
	inner := newBlockingAppender()
	var dropped atomic.Int32
	a := NewAsync(inner, 2, OnDrop(func(Record) { dropped.Add(1) }))

	// first record is taken by the worker, which then blocks
	_ = a.Write(testRecord(severity.Info, "first"))
	<-inner.started

	_ = a.Write(testRecord(severity.Info, "q1"))
	_ = a.Write(testRecord(severity.Info, "q2"))
	_ = a.Write(testRecord(severity.Info, "overflow"))

	if a.Dropped() != 1 || dropped.Load() != 1 {
		t.Errorf("expected 1 dropped record, got %d (callback %d)", a.Dropped(), dropped.Load())
	}

	close(inner.release)
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if inner.Len() != 3 {
		t.Errorf("expected 3 records written, got %d", inner.Len())
	}
	if !inner.Closed() {
		t.Error("expected inner appender to be closed")
	}
}

func TestAsyncWriteAfterClose(t *testing.T) {
	a := NewAsync(NewMemory(), 0)
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	err := a.Write(testRecord(severity.Info, "late"))
	if !stderrors.Is(err, errors.ErrAppenderClosed) {
		t.Errorf("expected APPENDER_CLOSED, got %v", err)
	}
}

type panickingAppender struct{ Null }

func (panickingAppender) Write(Record) error { panic("boom") }

func TestAsyncReportsInnerFailures(t *testing.T) {
	var mu sync.Mutex
	var got []error
	onError := OnError(func(err error) {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
	})

	a := NewAsync(&panickingAppender{Null{name: "bad"}}, 4, onError)
	_ = a.Write(testRecord(severity.Error, "x"))
	_ = a.Flush()
	_ = a.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(got))
	}
	if !stderrors.Is(got[0], errors.ErrAppenderWriteFailure) {
		t.Errorf("expected APPENDER_WRITE_FAILURE, got %v", got[0])
	}
	if a.Name() != "bad" {
		t.Errorf("expected wrapped name, got %q", a.Name())
	}
}
