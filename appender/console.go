package appender

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/kbukum/loghub/errors"
)

// Console writes one line per record to a stream, optionally colored.
type Console struct {
	name   string
	layout *Layout
	color  atomic.Bool

	mu  sync.Mutex // serialises writes to out
	out io.Writer
}

// NewConsole creates a console appender writing to out.
func NewConsole(out io.Writer, opts ...Option) *Console {
	o := buildOptions(ConsoleName, opts)
	c := &Console{
		name:   o.name,
		layout: o.layout,
		out:    out,
	}
	c.color.Store(o.color)
	return c
}

func (c *Console) Name() string { return c.name }

// SetColor enables or disables ANSI color for subsequent records.
func (c *Console) SetColor(enabled bool) { c.color.Store(enabled) }

// ColorEnabled reports whether records are colored.
func (c *Console) ColorEnabled() bool { return c.color.Load() }

// Layout returns the line layout in use.
func (c *Console) Layout() *Layout { return c.layout }

// Write renders r and writes it with a single call on the underlying stream.
func (c *Console) Write(r Record) error {
	buf := getBuffer()
	defer putBuffer(buf)

	b := (*buf)[:0]
	color := c.color.Load()
	if color {
		b = append(b, colorFor(r.Level)...)
	}
	b = c.layout.AppendRecord(b, r)
	if color {
		b = append(b, colorReset...)
	}
	b = append(b, '\n')
	*buf = b

	c.mu.Lock()
	_, err := c.out.Write(b)
	c.mu.Unlock()
	if err != nil {
		return errors.AppenderWriteFailure(c.name, err)
	}
	return nil
}

// Flush flushes the stream when it buffers.
func (c *Console) Flush() error {
	f, ok := c.out.(interface{ Flush() error })
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return f.Flush()
}

// Close flushes the stream. The stream itself belongs to the caller and is
// left open.
func (c *Console) Close() error {
	return c.Flush()
}

const maxPooledBuffer = 4 << 10

var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 256)
		return &b
	},
}

func getBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

func putBuffer(b *[]byte) {
	// ditch large buffers
	if cap(*b) > maxPooledBuffer {
		return
	}
	bufferPool.Put(b)
}
