// Package watch nudges the orchestrator when input directories change.
//
// The poll loop is the source of truth for discovery; the watcher only
// shortens the wait between a file landing and the next scan. Losing events
// is harmless, so nudges are coalesced into a single-slot channel and
// watcher errors are logged rather than surfaced.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"hopper/internal/logging"
)

// Watcher monitors directory trees and emits coalesced change nudges.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	nudges  chan struct{}
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// New creates a watcher. Call WatchTree for each root, then Start.
func New(logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher: fsw,
		logger:  logging.NewComponentLogger(logger, "watch"),
		nudges:  make(chan struct{}, 1),
	}, nil
}

// WatchTree adds the directory and all subdirectories below it.
func (w *Watcher) WatchTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("cannot access path while adding watches", logging.String("path", path), logging.Error(err))
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", logging.String("path", path), logging.Error(err))
		}
		return nil
	})
}

// Start consumes events until the context is canceled or the watcher closed.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handleEvent(event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", logging.Error(err))
			}
		}
	}()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.WatchTree(event.Name); err != nil {
				w.logger.Warn("cannot extend watch to new directory",
					logging.String("path", event.Name), logging.Error(err))
			}
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
		w.nudge()
	}
}

func (w *Watcher) nudge() {
	select {
	case w.nudges <- struct{}{}:
	default:
	}
}

// Nudges returns the coalesced change channel.
func (w *Watcher) Nudges() <-chan struct{} {
	return w.nudges
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
