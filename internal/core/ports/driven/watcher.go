package driven

import (
	"context"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// SourceWatcher observes source directories for changes.
// Events are delivered until ctx is cancelled.
type SourceWatcher interface {
	// Watch monitors the given paths and invokes handle for every
	// change. Blocks until ctx is done or an unrecoverable error.
	Watch(ctx context.Context, paths []string, handle func(domain.SourceChange)) error
}
