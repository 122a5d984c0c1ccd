// Package watch observes source directories with fsnotify and turns
// filesystem events into domain change notifications.
package watch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.SourceWatcher = (*Watcher)(nil)

// Watcher drives re-ingestion from filesystem events.
type Watcher struct{}

// New creates a source watcher.
func New() *Watcher {
	return &Watcher{}
}

// Watch monitors the given paths and invokes handle for every change.
// Blocks until ctx is done.
func (w *Watcher) Watch(ctx context.Context, paths []string, handle func(domain.SourceChange)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		logger.Debug("Watching %s", path)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if change, relevant := toChange(event); relevant {
				handle(change)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// toChange maps an fsnotify event onto a domain change. Chmod-only
// events carry no content change and are dropped.
func toChange(event fsnotify.Event) (domain.SourceChange, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return domain.SourceChange{Type: domain.ChangeCreated, Path: event.Name}, true
	case event.Has(fsnotify.Write):
		return domain.SourceChange{Type: domain.ChangeUpdated, Path: event.Name}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return domain.SourceChange{Type: domain.ChangeDeleted, Path: event.Name}, true
	}
	return domain.SourceChange{}, false
}
