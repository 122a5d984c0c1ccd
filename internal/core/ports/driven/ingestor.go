package driven

import (
	"context"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// Ingestor turns one source format into normalised fragments.
// Each implementation handles a single export format (ChatGPT trees,
// Claude conversations, Discord channels, existing markdown).
//
// The four stages are called in order by the ingest service:
// Discover finds raw documents, Parse extracts fragments, Render
// produces markdown, and DeriveMetadata builds the frontmatter.
// Implementations must keep Parse, Render and DeriveMetadata free of
// side effects so failed fragments can be dropped without cleanup.
type Ingestor interface {
	// Name identifies the ingestor in provenance records and CLI flags.
	Name() string

	// Discover finds source documents under path. A path that simply
	// does not contain this format yields zero documents and no error.
	Discover(ctx context.Context, path string) ([]domain.RawDocument, error)

	// Parse extracts fragments from one raw document, in source order.
	Parse(raw domain.RawDocument) ([]domain.ParsedFragment, error)

	// Render produces the markdown body for one fragment.
	Render(fragment domain.ParsedFragment) (string, error)

	// DeriveMetadata builds the frontmatter mapping for one fragment.
	DeriveMetadata(fragment domain.ParsedFragment) (map[string]any, error)
}
