package domain

// RawDocument represents one discovered source item before parsing.
// It is the ingestor's Discover output.
type RawDocument struct {
	// Path is the on-disk location the document was discovered at.
	Path string

	// Content is the decoded text content.
	Content []byte

	// DetectedEncoding is the charset the bytes were decoded from,
	// e.g. "utf-8" or "windows-1252".
	DetectedEncoding string

	// Metadata contains ingestor-specific key-value pairs attached at
	// discovery time (channel descriptors, export metadata, etc).
	Metadata map[string]any
}

// ChangeType represents the type of source change.
type ChangeType int

const (
	// ChangeCreated indicates a new source file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified source file.
	ChangeUpdated

	// ChangeDeleted indicates a removed source file.
	ChangeDeleted
)

// SourceChange represents a change event from a watched source directory.
// Used by the watch command to trigger re-ingestion.
type SourceChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the affected file.
	Path string
}
