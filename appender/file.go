package appender

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kbukum/loghub/errors"
)

// File appends one line per record to a file. Writes are unbuffered so a
// crash loses nothing already accepted.
type File struct {
	name   string
	path   string
	layout *Layout

	mu sync.Mutex
	f  *os.File
}

// OpenFile opens (creating if needed) path for appending.
func OpenFile(path string, opts ...Option) (*File, error) {
	o := buildOptions(FileName, opts)
	if path == "" {
		return nil, errors.AppenderSetupFailure(o.name, fmt.Errorf("file path is empty"))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.AppenderSetupFailure(o.name, fmt.Errorf("failed to create log directory: %w", err))
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.AppenderSetupFailure(o.name, fmt.Errorf("failed to open log file: %w", err))
	}
	return &File{
		name:   o.name,
		path:   path,
		layout: o.layout,
		f:      f,
	}, nil
}

func (a *File) Name() string { return a.name }

// Path returns the file path.
func (a *File) Path() string { return a.path }

func (a *File) Write(r Record) error {
	buf := getBuffer()
	defer putBuffer(buf)
	b := a.layout.AppendRecord((*buf)[:0], r)
	b = append(b, '\n')
	*buf = b

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.f == nil {
		return errors.AppenderClosed(a.name)
	}
	if _, err := a.f.Write(b); err != nil {
		return errors.AppenderWriteFailure(a.name, err)
	}
	return nil
}

// Flush commits written records to stable storage.
func (a *File) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.f == nil {
		return nil
	}
	if err := a.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	return nil
}

// Close syncs and closes the file. Later writes fail with APPENDER_CLOSED.
func (a *File) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.f == nil {
		return nil
	}
	f := a.f
	a.f = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
