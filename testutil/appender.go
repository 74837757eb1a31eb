package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/kbukum/loghub/appender"
)

// FailingAppender fails every write, either by returning an error or, when
// Panic is set, by panicking.
type FailingAppender struct {
	ID    string
	Panic bool

	writes atomic.Int64
	closed atomic.Bool
}

// NewFailingAppender returns an appender whose writes return an error.
func NewFailingAppender(name string) *FailingAppender {
	return &FailingAppender{ID: name}
}

func (f *FailingAppender) Name() string { return f.ID }

func (f *FailingAppender) Write(r appender.Record) error {
	f.writes.Add(1)
	if f.Panic {
		panic(fmt.Sprintf("%s exploded on %q", f.ID, r.Message))
	}
	return fmt.Errorf("%s: device unavailable", f.ID)
}

func (f *FailingAppender) Close() error {
	f.closed.Store(true)
	return nil
}

// Writes returns how many writes were attempted.
func (f *FailingAppender) Writes() int64 { return f.writes.Load() }

// Closed reports whether Close was called.
func (f *FailingAppender) Closed() bool { return f.closed.Load() }
