package driving

import (
	"context"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// IngestOrchestrator coordinates fragment ingestion from sources.
type IngestOrchestrator interface {
	// Ingest runs the four-stage pipeline for one named ingestor over
	// the given path. Per-item failures are recorded in the result,
	// never returned; the only error is an unknown ingestor name.
	Ingest(ctx context.Context, ingestorName, path string) (*domain.IngestResult, error)

	// IngestAll runs every ingestor with a configured source path.
	IngestAll(ctx context.Context) (map[string]*domain.IngestResult, error)

	// IngestorNames returns the registered ingestor names, sorted.
	IngestorNames() []string
}
