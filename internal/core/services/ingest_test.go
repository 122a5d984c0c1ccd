package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
)

// stubIngestor drives the orchestrator with scripted behaviour.
type stubIngestor struct {
	name        string
	docs        []domain.RawDocument
	discoverErr error
	parse       func(domain.RawDocument) ([]domain.ParsedFragment, error)
	renderErr   map[string]error
	metaErr     map[string]error
}

func (s *stubIngestor) Name() string { return s.name }

func (s *stubIngestor) Discover(context.Context, string) ([]domain.RawDocument, error) {
	return s.docs, s.discoverErr
}

func (s *stubIngestor) Parse(raw domain.RawDocument) ([]domain.ParsedFragment, error) {
	return s.parse(raw)
}

func (s *stubIngestor) Render(f domain.ParsedFragment) (string, error) {
	if err := s.renderErr[f.Content]; err != nil {
		return "", err
	}
	return "rendered: " + f.Content, nil
}

func (s *stubIngestor) DeriveMetadata(f domain.ParsedFragment) (map[string]any, error) {
	if err := s.metaErr[f.Content]; err != nil {
		return nil, err
	}
	return map[string]any{"title": f.Content}, nil
}

func fragment(content string) domain.ParsedFragment {
	return domain.ParsedFragment{
		Content:    content,
		SourcePath: "/src/doc.json",
		Timestamp:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Metadata:   map[string]any{},
	}
}

func TestIngestHappyPath(t *testing.T) {
	stub := &stubIngestor{
		name: "stub",
		docs: []domain.RawDocument{{Path: "/src/doc.json"}},
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			return []domain.ParsedFragment{fragment("one"), fragment("two")}, nil
		},
	}
	o := NewIngestOrchestrator(map[string]driven.Ingestor{"stub": stub}, nil)

	result, err := o.Ingest(context.Background(), "stub", "/src")
	require.NoError(t, err)

	assert.Len(t, result.Fragments, 2)
	assert.Len(t, result.Provenance, 2)
	assert.Empty(t, result.Errors)

	f := result.Fragments[0]
	assert.Equal(t, "rendered: one", f.Metadata["markdown"])
	meta, ok := f.Metadata["frontmatter"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "one", meta["title"])
	assert.Equal(t, domain.ProvenanceSuccess, result.Provenance[0].Status)
	assert.NotEmpty(t, result.Provenance[0].FragmentID)
	assert.NotEmpty(t, result.Provenance[0].RunID)

	// Provenance timestamps are the attempt time, not the fragment's own.
	assert.WithinDuration(t, time.Now(), result.Provenance[0].Timestamp, time.Minute)
}

func TestIngestDistinctIDsForSameContentFromDifferentFiles(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubIngestor{
		name: "stub",
		docs: []domain.RawDocument{{Path: "/exports/a.json"}, {Path: "/exports/b.json"}},
		parse: func(raw domain.RawDocument) ([]domain.ParsedFragment, error) {
			return []domain.ParsedFragment{{
				Content:    "same words",
				SourcePath: raw.Path,
				Timestamp:  ts,
				Metadata:   map[string]any{},
			}}, nil
		},
	}
	o := NewIngestOrchestrator(map[string]driven.Ingestor{"stub": stub}, nil)

	result, err := o.Ingest(context.Background(), "stub", "/exports")
	require.NoError(t, err)
	require.Len(t, result.Provenance, 2)

	// Identical content and timestamp must still address separately when
	// they come from different files, or the vault dedups the second.
	assert.NotEqual(t, result.Provenance[0].FragmentID, result.Provenance[1].FragmentID)
	assert.Equal(t, result.Provenance[0].FragmentID, result.Fragments[0].Metadata["fragment_id"])
}

func TestIngestUnknownIngestor(t *testing.T) {
	o := NewIngestOrchestrator(map[string]driven.Ingestor{}, nil)
	_, err := o.Ingest(context.Background(), "nope", "/src")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngestDiscoverErrorRecordedNotFatal(t *testing.T) {
	stub := &stubIngestor{
		name:        "stub",
		discoverErr: errors.New("disk on fire"),
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			return nil, nil
		},
	}
	o := NewIngestOrchestrator(map[string]driven.Ingestor{"stub": stub}, nil)

	result, err := o.Ingest(context.Background(), "stub", "/src")
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "discover error")
	assert.Empty(t, result.Fragments)
}

func TestIngestParseErrorSkipsDocumentOnly(t *testing.T) {
	stub := &stubIngestor{
		name: "stub",
		docs: []domain.RawDocument{{Path: "/src/bad.json"}, {Path: "/src/good.json"}},
		parse: func(raw domain.RawDocument) ([]domain.ParsedFragment, error) {
			if raw.Path == "/src/bad.json" {
				return nil, errors.New("mangled")
			}
			return []domain.ParsedFragment{fragment("ok")}, nil
		},
	}
	o := NewIngestOrchestrator(map[string]driven.Ingestor{"stub": stub}, nil)

	result, err := o.Ingest(context.Background(), "stub", "/src")
	require.NoError(t, err)
	assert.Len(t, result.Fragments, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "/src/bad.json")
}

func TestIngestRenderFailureIsolatedPerFragment(t *testing.T) {
	stub := &stubIngestor{
		name: "stub",
		docs: []domain.RawDocument{{Path: "/src/doc.json"}},
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			return []domain.ParsedFragment{fragment("good"), fragment("broken"), fragment("also good")}, nil
		},
		renderErr: map[string]error{"broken": errors.New("render boom")},
	}
	o := NewIngestOrchestrator(map[string]driven.Ingestor{"stub": stub}, nil)

	result, err := o.Ingest(context.Background(), "stub", "/src")
	require.NoError(t, err)

	assert.Len(t, result.Fragments, 2)
	assert.Len(t, result.Provenance, 3)
	assert.GreaterOrEqual(t, len(result.Provenance), len(result.Fragments))

	statuses := []domain.ProvenanceStatus{
		result.Provenance[0].Status,
		result.Provenance[1].Status,
		result.Provenance[2].Status,
	}
	assert.Equal(t, []domain.ProvenanceStatus{
		domain.ProvenanceSuccess, domain.ProvenanceError, domain.ProvenanceSuccess,
	}, statuses)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "render error")
}

func TestIngestMetadataFailureDropsFragment(t *testing.T) {
	stub := &stubIngestor{
		name: "stub",
		docs: []domain.RawDocument{{Path: "/src/doc.json"}},
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			return []domain.ParsedFragment{fragment("meta-broken")}, nil
		},
		metaErr: map[string]error{"meta-broken": errors.New("meta boom")},
	}
	o := NewIngestOrchestrator(map[string]driven.Ingestor{"stub": stub}, nil)

	result, err := o.Ingest(context.Background(), "stub", "/src")
	require.NoError(t, err)
	assert.Empty(t, result.Fragments)
	require.Len(t, result.Provenance, 1)
	assert.Equal(t, domain.ProvenanceError, result.Provenance[0].Status)
}

func TestIngestDoesNotMutateParserMetadata(t *testing.T) {
	original := map[string]any{"existing": "value"}
	stub := &stubIngestor{
		name: "stub",
		docs: []domain.RawDocument{{Path: "/src/doc.json"}},
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			f := fragment("one")
			f.Metadata = original
			return []domain.ParsedFragment{f}, nil
		},
	}
	o := NewIngestOrchestrator(map[string]driven.Ingestor{"stub": stub}, nil)

	result, err := o.Ingest(context.Background(), "stub", "/src")
	require.NoError(t, err)

	// The emitted fragment carries the enriched copy.
	assert.Contains(t, result.Fragments[0].Metadata, "markdown")
	assert.Equal(t, "value", result.Fragments[0].Metadata["existing"])

	// The parser's original map is untouched.
	assert.NotContains(t, original, "markdown")
}

func TestIngestAllSkipsUnconfiguredSources(t *testing.T) {
	stub := &stubIngestor{
		name: "stub",
		docs: []domain.RawDocument{{Path: "/src/doc.json"}},
		parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) {
			return []domain.ParsedFragment{fragment("one")}, nil
		},
	}
	other := &stubIngestor{name: "other", parse: func(domain.RawDocument) ([]domain.ParsedFragment, error) { return nil, nil }}

	o := NewIngestOrchestrator(
		map[string]driven.Ingestor{"stub": stub, "other": other},
		map[string]string{"stub": "/src"},
	)

	results, err := o.IngestAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results["stub"].Fragments, 1)
}

func TestIngestorNamesSorted(t *testing.T) {
	o := NewIngestOrchestrator(map[string]driven.Ingestor{
		"zeta":  &stubIngestor{name: "zeta"},
		"alpha": &stubIngestor{name: "alpha"},
	}, nil)
	assert.Equal(t, []string{"alpha", "zeta"}, o.IngestorNames())
}
