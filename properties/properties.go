// Package properties provides the ordered key/value bag used to carry
// configuration into the logging service.
//
// Keys are unique; overwriting a key keeps its original position. Iteration
// follows insertion order. A Properties value is safe for concurrent readers
// but must not be written while another goroutine reads it.
package properties

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/loghub/errors"
)

// Properties is an insertion-ordered string map.
type Properties struct {
	values map[string]string
	order  []string
}

// New creates an empty property bag.
func New() *Properties {
	return &Properties{values: make(map[string]string)}
}

// FromMap builds a property bag from m. Keys are inserted in sorted order so
// that iteration is deterministic.
func FromMap(m map[string]string) *Properties {
	p := New()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		p.Set(k, m[k])
	}
	return p
}

// Set stores value under key, overwriting any previous value.
func (p *Properties) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.order = append(p.order, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key, or def when absent.
func (p *Properties) Get(key, def string) string {
	if v, ok := p.Lookup(key); ok {
		return v
	}
	return def
}

// Lookup returns the value stored under key and whether it was present.
func (p *Properties) Lookup(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.Lookup(key)
	return ok
}

// Keys returns a restartable sequence of keys in insertion order.
func (p *Properties) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		if p == nil {
			return
		}
		for _, k := range p.order {
			if !yield(k) {
				return
			}
		}
	}
}

// All returns a restartable sequence of key/value pairs in insertion order.
func (p *Properties) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if p == nil {
			return
		}
		for _, k := range p.order {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

// WithPrefix returns the keys starting with prefix, in insertion order.
func (p *Properties) WithPrefix(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range p.Keys() {
			if strings.HasPrefix(k, prefix) && !yield(k) {
				return
			}
		}
	}
}

// Len returns the number of keys.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	c := New()
	for k, v := range p.All() {
		c.Set(k, v)
	}
	return c
}

// Merge copies every pair of other into p, overwriting existing keys.
func (p *Properties) Merge(other *Properties) {
	for k, v := range other.All() {
		p.Set(k, v)
	}
}

// String renders the bag as k=v lines, for debugging.
func (p *Properties) String() string {
	var b strings.Builder
	for k, v := range p.All() {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
		b.WriteByte('\n')
	}
	return b.String()
}

// Bool parses the value under key as "true" or "false", case-insensitively.
// It returns def when the key is absent and INVALID_CONFIG_VALUE for any
// other literal.
func (p *Properties) Bool(key string, def bool) (bool, error) {
	v, ok := p.Lookup(key)
	if !ok {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return def, errors.InvalidConfigValue(key, v, "true or false")
}

// Int parses the value under key as a base-10 integer.
func (p *Properties) Int(key string, def int) (int, error) {
	v, ok := p.Lookup(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, errors.InvalidConfigValue(key, v, "an integer").WithCause(err)
	}
	return n, nil
}
