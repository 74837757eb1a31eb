package appender

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kbukum/loghub/errors"
)

// DefaultQueueSize is the queue capacity used when NewAsync gets size <= 0.
const DefaultQueueSize = 1024

// Async decouples callers from a slow appender. Write enqueues the record
// and returns immediately; a single worker goroutine drains the queue into
// the wrapped appender in order. When the queue is full the record is
// dropped and counted.
type Async struct {
	inner   Appender
	queue   chan Record
	done    chan struct{}
	dropped atomic.Uint64
	onError func(error)
	onDrop  func(Record)

	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	closed  bool
}

// AsyncOption configures an Async appender.
type AsyncOption func(*Async)

// OnError registers a callback for errors returned by the wrapped appender.
func OnError(fn func(error)) AsyncOption {
	return func(a *Async) { a.onError = fn }
}

// OnDrop registers a callback for records dropped on a full queue.
func OnDrop(fn func(Record)) AsyncOption {
	return func(a *Async) { a.onDrop = fn }
}

// NewAsync starts a worker draining a queue of the given size into inner.
func NewAsync(inner Appender, size int, opts ...AsyncOption) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		inner: inner,
		queue: make(chan Record, size),
		done:  make(chan struct{}),
	}
	a.idle = sync.NewCond(&a.mu)
	for _, opt := range opts {
		opt(a)
	}
	go a.run()
	return a
}

// Name reports the wrapped appender's name.
func (a *Async) Name() string { return a.inner.Name() }

// Unwrap returns the wrapped appender.
func (a *Async) Unwrap() Appender { return a.inner }

// Dropped returns how many records were dropped because the queue was full.
func (a *Async) Dropped() uint64 { return a.dropped.Load() }

// Write enqueues r without blocking.
func (a *Async) Write(r Record) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return errors.AppenderClosed(a.Name())
	}
	select {
	case a.queue <- r:
		a.pending++
		a.mu.Unlock()
		return nil
	default:
		a.mu.Unlock()
	}
	a.dropped.Add(1)
	if a.onDrop != nil {
		a.onDrop(r)
	}
	return nil
}

// Flush waits until every queued record has been written, then flushes the
// wrapped appender.
func (a *Async) Flush() error {
	a.mu.Lock()
	for a.pending > 0 {
		a.idle.Wait()
	}
	a.mu.Unlock()
	return Flush(a.inner)
}

// Close drains the queue, stops the worker and closes the wrapped appender.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.inner.Close()
}

func (a *Async) run() {
	defer close(a.done)
	for r := range a.queue {
		if err := a.write(r); err != nil && a.onError != nil {
			a.onError(err)
		}
		a.mu.Lock()
		a.pending--
		if a.pending == 0 {
			a.idle.Broadcast()
		}
		a.mu.Unlock()
	}
}

func (a *Async) write(r Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.AppenderWriteFailure(a.Name(), fmt.Errorf("panic: %v", p))
		}
	}()
	return a.inner.Write(r)
}
