package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/core/ports/driving"
	"github.com/creek-labs/creek-cli/internal/logger"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.IngestOrchestrator = (*IngestOrchestrator)(nil)

// IngestOrchestrator coordinates fragment ingestion.
//
// Failures are isolated per item: a document that fails to parse or a
// fragment that fails to render is recorded and skipped without
// disturbing its neighbours. Only an unknown ingestor name is returned
// as an error.
type IngestOrchestrator struct {
	ingestors   map[string]driven.Ingestor
	sourcePaths map[string]string
}

// NewIngestOrchestrator creates an ingest orchestrator over the given
// ingestor registry. sourcePaths maps ingestor names to the directories
// IngestAll reads from; ingestors without a path are skipped there.
func NewIngestOrchestrator(ingestors map[string]driven.Ingestor, sourcePaths map[string]string) *IngestOrchestrator {
	return &IngestOrchestrator{
		ingestors:   ingestors,
		sourcePaths: sourcePaths,
	}
}

// IngestorNames returns the registered ingestor names, sorted.
func (o *IngestOrchestrator) IngestorNames() []string {
	names := make([]string, 0, len(o.ingestors))
	for name := range o.ingestors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ingest runs the four-stage pipeline for one ingestor over path.
func (o *IngestOrchestrator) Ingest(ctx context.Context, ingestorName, path string) (*domain.IngestResult, error) {
	ingestor, ok := o.ingestors[ingestorName]
	if !ok {
		return nil, fmt.Errorf("%w: ingestor %q", domain.ErrUnsupportedType, ingestorName)
	}

	runID := uuid.New().String()
	result := &domain.IngestResult{}

	logger.Section(fmt.Sprintf("Ingest %s", ingestorName))
	logger.Info("Run %s: discovering under %s", runID, path)

	// 1. Discover. A discovery failure is recorded and the run
	// continues with whatever was found (usually nothing).
	docs, err := ingestor.Discover(ctx, path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("discover error: %v", err))
		docs = nil
	}
	logger.Debug("Discovered %d documents", len(docs))

	// 2. Parse each document; a bad document is skipped whole.
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fragments, err := ingestor.Parse(doc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("parse error for %s: %v", doc.Path, err))
			continue
		}

		// 3-4. Render and derive metadata per fragment. Every attempt
		// gets a provenance entry; only clean fragments are emitted.
		for _, fragment := range fragments {
			o.processFragment(ingestor, ingestorName, runID, fragment, result)
		}
	}

	logger.Info("Ingest %s complete: %d fragments, %d errors",
		ingestorName, len(result.Fragments), len(result.Errors))
	return result, nil
}

// IngestAll runs every ingestor with a configured source path.
func (o *IngestOrchestrator) IngestAll(ctx context.Context) (map[string]*domain.IngestResult, error) {
	results := make(map[string]*domain.IngestResult)
	for _, name := range o.IngestorNames() {
		path, ok := o.sourcePaths[name]
		if !ok {
			logger.Debug("No source path configured for %s, skipping", name)
			continue
		}
		result, err := o.Ingest(ctx, name, path)
		if err != nil {
			return results, fmt.Errorf("ingest %s: %w", name, err)
		}
		results[name] = result
	}
	return results, nil
}

// processFragment runs the render and metadata stages for one fragment
// and appends the outcome to result.
func (o *IngestOrchestrator) processFragment(
	ingestor driven.Ingestor,
	ingestorName, runID string,
	fragment domain.ParsedFragment,
	result *domain.IngestResult,
) {
	fragmentID := normalise.FragmentID(fragment.SourcePath, fragment.Timestamp, fragment.Content)
	entry := domain.ProvenanceEntry{
		SourcePath:   fragment.SourcePath,
		IngestorName: ingestorName,
		RunID:        runID,
		FragmentID:   fragmentID,
		Timestamp:    time.Now().In(normalise.Zone()),
	}

	markdown, renderErr := ingestor.Render(fragment)
	if renderErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("render error for %s: %v", fragment.SourcePath, renderErr))
	}
	frontmatter, metaErr := ingestor.DeriveMetadata(fragment)
	if metaErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("metadata error for %s: %v", fragment.SourcePath, metaErr))
	}

	if renderErr != nil || metaErr != nil {
		entry.Status = domain.ProvenanceError
		result.Provenance = append(result.Provenance, entry)
		return
	}

	// Enrich a copy so the parser's fragment stays untouched.
	meta := fragment.CloneMetadata()
	meta["fragment_id"] = fragmentID
	meta["markdown"] = markdown
	meta["frontmatter"] = frontmatter
	fragment.Metadata = meta

	entry.Status = domain.ProvenanceSuccess
	result.Fragments = append(result.Fragments, fragment)
	result.Provenance = append(result.Provenance, entry)
}
