package driven

import (
	"context"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// WriteResult reports the outcome of writing one fragment to the vault.
type WriteResult struct {
	// Path is the markdown file the fragment lives at. For duplicates
	// this is the previously written file.
	Path string

	// Duplicate is true when the fragment ID was already present and
	// nothing was written.
	Duplicate bool
}

// VaultWriter persists rendered fragments into the markdown vault.
type VaultWriter interface {
	// Write stores one rendered fragment with its frontmatter. A
	// fragment whose ID already exists is skipped, not overwritten.
	Write(ctx context.Context, fragmentID string, fragment domain.ParsedFragment, markdown string, frontmatter map[string]any) (WriteResult, error)

	// AppendProvenance records the run's provenance entries in the
	// vault's processing log.
	AppendProvenance(entries []domain.ProvenanceEntry) error

	// Close releases the underlying index.
	Close() error
}
