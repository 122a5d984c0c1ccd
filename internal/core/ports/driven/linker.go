package driven

import (
	"context"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// LinkKind distinguishes the relationship classes the linker emits.
type LinkKind string

const (
	// LinkTemporal connects fragments close together in time.
	LinkTemporal LinkKind = "temporal"

	// LinkThread connects fragments forming a recurring theme.
	LinkThread LinkKind = "thread"
)

// LinkRecord relates two fragments by ID.
type LinkRecord struct {
	// FromID and ToID are fragment IDs.
	FromID string
	ToID   string

	// Kind is the relationship class.
	Kind LinkKind

	// Weight is the link strength in [0, 1].
	Weight float64
}

// Linker discovers relationships between ingested fragments.
// No implementation ships yet; the pipeline runs linking only when a
// Linker is configured.
type Linker interface {
	// Link relates the given fragments to each other.
	Link(ctx context.Context, fragments []domain.ParsedFragment) ([]LinkRecord, error)
}
