package domain

import "time"

// ParsedFragment is one normalised unit of content extracted from a
// source document: a conversation turn, a message cluster, or a whole
// markdown file.
//
// Fragments are value objects. Pipeline stages that enrich a fragment
// build new metadata maps rather than mutating a shared one.
type ParsedFragment struct {
	// Content is the rendered-ready text of the fragment.
	Content string

	// Metadata carries format-specific fields set by the parser and
	// enriched by later stages (rendered markdown, frontmatter).
	Metadata map[string]any

	// SourcePath is the file the fragment was extracted from.
	SourcePath string

	// Timestamp is the fragment's creation time in the canonical zone.
	Timestamp time.Time
}

// CloneMetadata returns a shallow copy of the fragment's metadata,
// never nil. Stages merge into the copy to keep fragments value-like.
func (f ParsedFragment) CloneMetadata() map[string]any {
	dst := make(map[string]any, len(f.Metadata)+2)
	for k, v := range f.Metadata {
		dst[k] = v
	}
	return dst
}

// ProvenanceStatus records how a fragment fared in the pipeline.
type ProvenanceStatus string

const (
	// ProvenanceSuccess means the fragment passed every stage.
	ProvenanceSuccess ProvenanceStatus = "success"

	// ProvenanceError means a stage failed and the fragment was dropped.
	ProvenanceError ProvenanceStatus = "error"

	// ProvenanceSkipped means the fragment was intentionally not emitted,
	// e.g. a duplicate already present in the vault.
	ProvenanceSkipped ProvenanceStatus = "skipped"
)

// ProvenanceEntry is the audit record for one fragment attempt.
// Every fragment that enters the render stage produces exactly one entry,
// whether or not it survives.
type ProvenanceEntry struct {
	// SourcePath is the originating file.
	SourcePath string `json:"source_path"`

	// IngestorName identifies the ingestor that produced the fragment.
	IngestorName string `json:"ingestor"`

	// RunID correlates entries from a single ingest run.
	RunID string `json:"run_id,omitempty"`

	// FragmentID is the deterministic content-addressed ID.
	FragmentID string `json:"fragment_id"`

	// Timestamp records when the ingest attempt occurred.
	Timestamp time.Time `json:"timestamp"`

	// Status records the outcome.
	Status ProvenanceStatus `json:"status"`
}

// IngestResult aggregates the output of one ingest run.
//
// Invariant: len(Provenance) >= len(Fragments). Every emitted fragment
// has a success entry; failed fragments have an error entry and no
// fragment.
type IngestResult struct {
	// Fragments are the successfully processed fragments, in source order.
	Fragments []ParsedFragment

	// Provenance has one entry per fragment attempt.
	Provenance []ProvenanceEntry

	// Errors holds human-readable descriptions of every recorded failure.
	Errors []string
}
