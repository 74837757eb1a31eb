package appender

import (
	"slices"
	"sync"
)

// Memory keeps every record it receives together with its rendered line.
// Applications can use it to verify logger calls in tests.
type Memory struct {
	name   string
	layout *Layout

	mu      sync.Mutex
	records []Record
	lines   []string
	flushes int
	closed  bool
}

// NewMemory creates an empty memory appender.
func NewMemory(opts ...Option) *Memory {
	o := buildOptions("memory", opts)
	return &Memory{name: o.name, layout: o.layout}
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) Write(r Record) error {
	line := m.layout.Render(r)
	m.mu.Lock()
	m.records = append(m.records, r)
	m.lines = append(m.lines, line)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Flush() error {
	m.mu.Lock()
	m.flushes++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Records returns a copy of the captured records.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records)
}

// Lines returns a copy of the rendered lines.
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.lines)
}

// Len returns the number of captured records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Flushes returns how many times Flush was called.
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Reset discards captured records and clears the closed flag.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.lines = nil
	m.flushes = 0
	m.closed = false
}
