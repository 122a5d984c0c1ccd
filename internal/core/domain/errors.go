package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown ingestor or fragment type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrPathNotFound indicates a source path does not exist on disk.
	// Unlike per-document failures this aborts the operation that hit it.
	ErrPathNotFound = errors.New("path not found")

	// ErrTimestampParse indicates a timestamp string matched none of the
	// accepted layouts. Callers decide the fallback.
	ErrTimestampParse = errors.New("timestamp parse failed")

	// ErrInvalidTimezone indicates a configured zone name is not a valid
	// IANA timezone.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrCyclicMapping indicates a conversation tree contains a cycle and
	// cannot be linearised.
	ErrCyclicMapping = errors.New("cyclic conversation mapping")

	// ErrVaultUnavailable indicates the vault directory is not configured
	// or cannot be created.
	ErrVaultUnavailable = errors.New("vault unavailable")
)
