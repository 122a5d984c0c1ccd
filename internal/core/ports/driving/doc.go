// Package driving defines interfaces that external actors (CLI, watch
// loop) use to interact with core services. These are the "driving" ports
// in hexagonal architecture terminology - they drive the application.
//
// Two ports are exposed: IngestOrchestrator runs individual ingestors,
// and PipelineRunner runs the full scan/ingest/classify/write pipeline.
// Implementations of these interfaces live in internal/core/services.
package driving
