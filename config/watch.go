package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kbukum/loghub/properties"
)

// Configurer applies a property set. *logger.Service implements it.
type Configurer interface {
	Configure(p *properties.Properties) error
}

// settleDelay lets an editor finish writing before the file is read.
var settleDelay = 100 * time.Millisecond

// Reload loads the properties described by opts and applies them to target.
func Reload(target Configurer, opts ...LoaderOption) error {
	p, err := LoadProperties(opts...)
	if err != nil {
		return err
	}
	if err := target.Configure(p); err != nil {
		return fmt.Errorf("failed to apply configuration: %w", err)
	}
	return nil
}

// Watch re-applies the configuration file at path to target every time it
// is written, created or replaced, until ctx is done. Load and apply
// failures go to onError and leave the previous configuration in place.
// opts are passed to LoadProperties on every reload. Watch returns an error
// only if the watch cannot be set up.
func Watch(ctx context.Context, path string, target Configurer, onError func(error), opts ...LoaderOption) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch config file %s: %w", path, err)
	}

	delay := settleDelay
	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}
	opts = append(opts[:len(opts):len(opts)], WithConfigFile(path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			if !sleepCtx(ctx, delay) {
				return nil
			}
			op := event.Op | drain(watcher.Events)

			// editors that write atomically replace the file, dropping the watch
			if op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove) {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					report(fmt.Errorf("config file %s was removed", path))
					continue
				}
				if err := watcher.Add(path); err != nil {
					report(fmt.Errorf("failed to re-watch config file %s: %w", path, err))
				}
			}

			if err := Reload(target, opts...); err != nil {
				report(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("config file watcher error: %w", err))
		}
	}
}

// drain consumes events queued while waiting for a write to settle, so one
// save triggers one reload. It returns the union of their operations.
func drain(events <-chan fsnotify.Event) fsnotify.Op {
	var op fsnotify.Op
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return op
			}
			op |= e.Op
		default:
			return op
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
