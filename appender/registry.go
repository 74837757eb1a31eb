package appender

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/kbukum/loghub/errors"
)

// Registry holds named appenders in registration order. Appenders are
// closed in reverse order.
type Registry struct {
	entries []Appender
	lookup  map[string]Appender
	mu      sync.RWMutex
}

// NewRegistry creates an empty appender registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make([]Appender, 0),
		lookup:  make(map[string]Appender),
	}
}

// Register adds a to the registry. Names must be unique.
func (r *Registry) Register(a Appender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.lookup[name]; exists {
		return errors.AppenderExists(name)
	}
	r.entries = append(r.entries, a)
	r.lookup[name] = a
	return nil
}

// Remove unregisters the appender called name and returns it.
func (r *Registry) Remove(name string) (Appender, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.lookup[name]
	if !ok {
		return nil, false
	}
	delete(r.lookup, name)
	for i, e := range r.entries {
		if e == a {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			break
		}
	}
	return a, true
}

// Get returns the appender called name.
func (r *Registry) Get(name string) (Appender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.lookup[name]
	return a, ok
}

// All returns the registered appenders in registration order.
func (r *Registry) All() []Appender {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Appender, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name()
	}
	return names
}

// Len returns the number of registered appenders.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// FlushAll flushes every appender, collecting failures.
func (r *Registry) FlushAll() error {
	var errs []error
	for _, a := range r.All() {
		if err := Flush(a); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush %s: %w", a.Name(), err))
		}
	}
	return stderrors.Join(errs...)
}

// CloseAll closes every appender in reverse registration order and empties
// the registry.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make([]Appender, 0)
	r.lookup = make(map[string]Appender)
	r.mu.Unlock()

	return CloseAll(entries)
}

// CloseAll closes appenders in reverse order, collecting failures.
func CloseAll(appenders []Appender) error {
	var errs []error
	for i := len(appenders) - 1; i >= 0; i-- {
		a := appenders[i]
		if err := a.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", a.Name(), err))
		}
	}
	return stderrors.Join(errs...)
}
