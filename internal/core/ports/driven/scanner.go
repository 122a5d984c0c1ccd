package driven

import (
	"context"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// SensitiveScanner finds sensitive data in source files before they
// enter the vault. Matches never carry the matched text.
type SensitiveScanner interface {
	// ScanFile scans one file. A nonexistent path is an error wrapping
	// domain.ErrPathNotFound.
	ScanFile(ctx context.Context, path string) ([]domain.RedactionMatch, error)

	// ScanDirectory scans a directory tree recursively, in
	// deterministic walk order.
	ScanDirectory(ctx context.Context, root string) ([]domain.RedactionMatch, error)
}
