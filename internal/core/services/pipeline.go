package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/core/ports/driving"
	"github.com/creek-labs/creek-cli/internal/logger"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineRunner = (*PipelineService)(nil)

// PipelineService runs the full processing pipeline:
// scan, ingest, classify, link, write.
//
// Scanner, classifier, linker and vault are optional. A nil dependency
// skips its stage; the pipeline degrades rather than failing.
type PipelineService struct {
	cfg          domain.Config
	orchestrator driving.IngestOrchestrator
	scanner      driven.SensitiveScanner
	classifier   driven.Classifier
	linker       driven.Linker
	vault        driven.VaultWriter
}

// NewPipelineService creates a pipeline service.
func NewPipelineService(
	cfg domain.Config,
	orchestrator driving.IngestOrchestrator,
	scanner driven.SensitiveScanner,
	classifier driven.Classifier,
	linker driven.Linker,
	vault driven.VaultWriter,
) *PipelineService {
	return &PipelineService{
		cfg:          cfg,
		orchestrator: orchestrator,
		scanner:      scanner,
		classifier:   classifier,
		linker:       linker,
		vault:        vault,
	}
}

// Run executes the pipeline for all configured sources.
func (p *PipelineService) Run(ctx context.Context) (*driving.PipelineStatus, error) {
	status := &driving.PipelineStatus{}

	// 1. Scan sources for sensitive data before anything is ingested.
	if p.cfg.Redaction.Enabled && p.scanner != nil {
		if err := p.runScan(ctx, status); err != nil {
			return status, err
		}
	}

	// 2. Ingest every configured source.
	results, err := p.orchestrator.IngestAll(ctx)
	if err != nil {
		return status, fmt.Errorf("ingest: %w", err)
	}
	for _, result := range results {
		status.FragmentsIngested += len(result.Fragments)
		status.ErrorCount += len(result.Errors)
	}

	// 3. Classify fragments from auto-classify sources.
	if p.classifier != nil {
		p.runClassify(results, status)
	}

	// 4. Link fragments across sources.
	if p.linker != nil {
		if err := p.runLink(ctx, results); err != nil {
			return status, fmt.Errorf("link: %w", err)
		}
	}

	// 5. Write fragments and provenance to the vault.
	if p.vault != nil {
		if err := p.runWrite(ctx, results, status); err != nil {
			return status, err
		}
	}

	logger.Info("Pipeline complete: %d ingested, %d written, %d duplicates, %d errors",
		status.FragmentsIngested, status.FragmentsWritten, status.DuplicatesSkipped, status.ErrorCount)
	return status, nil
}

// runScan scans every configured source path.
func (p *PipelineService) runScan(ctx context.Context, status *driving.PipelineStatus) error {
	logger.Section("Redaction scan")
	for name, path := range p.cfg.SourcePaths() {
		matches, err := p.scanner.ScanDirectory(ctx, path)
		if err != nil {
			return fmt.Errorf("scan %s: %w", name, err)
		}
		status.ScanFindings += len(matches)
	}
	if status.ScanFindings > 0 {
		logger.Warn("Scan found %d sensitive match(es); review before sharing the vault", status.ScanFindings)
	}
	return nil
}

// runClassify attaches a category to each fragment from sources the
// config marks for automatic classification. Classification failures
// are counted, not fatal.
func (p *PipelineService) runClassify(results map[string]*domain.IngestResult, status *driving.PipelineStatus) {
	auto := p.cfg.Classification.AutoClassifySources
	for name, result := range results {
		if !slices.Contains(auto, name) {
			continue
		}
		for i := range result.Fragments {
			c, err := p.classifier.Classify(result.Fragments[i])
			if err != nil {
				status.ErrorCount++
				logger.Debug("Classify failed for %s: %v", result.Fragments[i].SourcePath, err)
				continue
			}
			c.NeedsReview = c.Confidence < p.cfg.Classification.ConfidenceThreshold
			meta := result.Fragments[i].CloneMetadata()
			meta["category"] = c.Category
			meta["category_confidence"] = c.Confidence
			meta["needs_review"] = c.NeedsReview
			result.Fragments[i].Metadata = meta
			status.Classified++
		}
	}
}

// runLink relates fragments across all sources.
func (p *PipelineService) runLink(ctx context.Context, results map[string]*domain.IngestResult) error {
	var all []domain.ParsedFragment
	for _, result := range results {
		all = append(all, result.Fragments...)
	}
	links, err := p.linker.Link(ctx, all)
	if err != nil {
		return err
	}
	logger.Debug("Linker produced %d links", len(links))
	return nil
}

// runWrite persists fragments and provenance.
func (p *PipelineService) runWrite(ctx context.Context, results map[string]*domain.IngestResult, status *driving.PipelineStatus) error {
	for _, result := range results {
		for _, fragment := range result.Fragments {
			markdown, _ := fragment.Metadata["markdown"].(string)
			frontmatter, _ := fragment.Metadata["frontmatter"].(map[string]any)
			fragmentID, _ := fragment.Metadata["fragment_id"].(string)
			if fragmentID == "" {
				fragmentID = normalise.FragmentID(fragment.SourcePath, fragment.Timestamp, fragment.Content)
			}

			res, err := p.vault.Write(ctx, fragmentID, fragment, markdown, frontmatter)
			if err != nil {
				status.ErrorCount++
				logger.Debug("Vault write failed for %s: %v", fragment.SourcePath, err)
				continue
			}
			if res.Duplicate {
				status.DuplicatesSkipped++
			} else {
				status.FragmentsWritten++
			}
		}
		if err := p.vault.AppendProvenance(result.Provenance); err != nil {
			return fmt.Errorf("append provenance: %w", err)
		}
	}
	return nil
}
