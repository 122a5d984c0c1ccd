// Package normalise provides the shared normalisation utilities every
// ingestor builds on: charset detection and decoding, timestamp parsing
// into the canonical timezone, and deterministic fragment IDs.
package normalise
