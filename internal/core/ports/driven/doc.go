// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Ingestor: Turns one source format into normalised fragments
//   - ConfigStore: Application configuration
//   - VaultWriter: Persists rendered fragments into the markdown vault
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - Classifier: Assigns categories to fragments. Without it the
//     classification stage is skipped.
//   - Linker: Relates fragments to each other. No implementation ships
//     yet; the stage runs only when one is configured.
//   - SourceWatcher: Drives re-ingestion on file changes.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or ingestor package
package driven
