// Package domain defines the core business entities for Creek.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: One discovered source item before parsing
//   - ParsedFragment: A normalised unit of content
//   - ProvenanceEntry: The audit record for a fragment attempt
//   - RedactionMatch: A sensitive-data hit, text-free by construction
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
