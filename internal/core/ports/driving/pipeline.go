package driving

import "context"

// PipelineStatus summarises one end-to-end pipeline run.
type PipelineStatus struct {
	// ScanFindings is the number of sensitive-data hits found.
	ScanFindings int

	// FragmentsIngested counts fragments produced across all ingestors.
	FragmentsIngested int

	// FragmentsWritten counts fragments newly written to the vault.
	FragmentsWritten int

	// DuplicatesSkipped counts fragments already present in the vault.
	DuplicatesSkipped int

	// Classified counts fragments that received a category.
	Classified int

	// ErrorCount is the number of recorded non-fatal errors.
	ErrorCount int
}

// PipelineRunner executes the full processing pipeline:
// scan, ingest, classify, link, write.
type PipelineRunner interface {
	// Run executes the pipeline for all configured sources.
	Run(ctx context.Context) (*PipelineStatus, error)
}
