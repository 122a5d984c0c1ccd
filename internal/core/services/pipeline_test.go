package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
)

// stubScanner returns canned matches for any directory.
type stubScanner struct {
	matches []domain.RedactionMatch
}

func (s *stubScanner) ScanFile(context.Context, string) ([]domain.RedactionMatch, error) {
	return s.matches, nil
}

func (s *stubScanner) ScanDirectory(context.Context, string) ([]domain.RedactionMatch, error) {
	return s.matches, nil
}

// stubClassifier labels everything the same way.
type stubClassifier struct {
	result driven.Classification
}

func (c *stubClassifier) Classify(domain.ParsedFragment) (driven.Classification, error) {
	return c.result, nil
}

// stubVault records writes in memory.
type stubVault struct {
	written    []string
	provenance []domain.ProvenanceEntry
	seen       map[string]bool
}

func (v *stubVault) Write(_ context.Context, fragmentID string, _ domain.ParsedFragment, _ string, _ map[string]any) (driven.WriteResult, error) {
	if v.seen == nil {
		v.seen = make(map[string]bool)
	}
	if v.seen[fragmentID] {
		return driven.WriteResult{Path: "/vault/" + fragmentID, Duplicate: true}, nil
	}
	v.seen[fragmentID] = true
	v.written = append(v.written, fragmentID)
	return driven.WriteResult{Path: "/vault/" + fragmentID}, nil
}

func (v *stubVault) AppendProvenance(entries []domain.ProvenanceEntry) error {
	v.provenance = append(v.provenance, entries...)
	return nil
}

func (v *stubVault) Close() error { return nil }

func pipelineFixture(t *testing.T) (*PipelineService, *stubVault) {
	t.Helper()

	stub := &stubIngestor{
		name: "markdown",
		docs: []domain.RawDocument{{Path: "/notes/a.md"}},
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			return []domain.ParsedFragment{fragment("a bug in the api code config server")}, nil
		},
	}
	orchestrator := NewIngestOrchestrator(
		map[string]driven.Ingestor{"markdown": stub},
		map[string]string{"markdown": "/notes"},
	)

	cfg := domain.DefaultConfig()
	cfg.Sources.Markdown = "/notes"

	vault := &stubVault{}
	p := NewPipelineService(
		cfg,
		orchestrator,
		&stubScanner{matches: []domain.RedactionMatch{{FilePath: "/notes/a.md", LineNumber: 1, MatchType: "email", SaltedHash: "h"}}},
		&stubClassifier{result: driven.Classification{Category: "technical", Confidence: 0.9}},
		nil,
		vault,
	)
	return p, vault
}

func TestPipelineRunCounts(t *testing.T) {
	p, vault := pipelineFixture(t)

	status, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, status.ScanFindings)
	assert.Equal(t, 1, status.FragmentsIngested)
	assert.Equal(t, 1, status.FragmentsWritten)
	assert.Equal(t, 1, status.Classified)
	assert.Zero(t, status.DuplicatesSkipped)
	assert.Zero(t, status.ErrorCount)

	require.Len(t, vault.written, 1)
	require.Len(t, vault.provenance, 1)
	assert.Equal(t, domain.ProvenanceSuccess, vault.provenance[0].Status)
}

func TestPipelineRunSecondPassSkipsDuplicates(t *testing.T) {
	p, vault := pipelineFixture(t)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	status, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.DuplicatesSkipped)
	assert.Zero(t, status.FragmentsWritten)
	assert.Len(t, vault.written, 1)
}

func TestPipelineLowConfidenceFlagsReview(t *testing.T) {
	stub := &stubIngestor{
		name: "markdown",
		docs: []domain.RawDocument{{Path: "/notes/a.md"}},
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			return []domain.ParsedFragment{fragment("content")}, nil
		},
	}
	orchestrator := NewIngestOrchestrator(
		map[string]driven.Ingestor{"markdown": stub},
		map[string]string{"markdown": "/notes"},
	)
	cfg := domain.DefaultConfig()
	cfg.Redaction.Enabled = false

	vault := &stubVault{}
	p := NewPipelineService(cfg, orchestrator, nil,
		&stubClassifier{result: driven.Classification{Category: "personal", Confidence: 0.3}},
		nil, vault)

	status, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.Classified)
	assert.Zero(t, status.ScanFindings)
}

func TestPipelineScanDisabledByConfig(t *testing.T) {
	p, _ := pipelineFixture(t)
	p.cfg.Redaction.Enabled = false

	status, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, status.ScanFindings)
}
