package redact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

var logMu sync.Mutex

// redactionLog is the on-disk shape of the redaction audit log.
type redactionLog struct {
	SaltHex string                  `json:"salt_hex"`
	Entries []domain.RedactionMatch `json:"entries"`
}

// LogRedactions appends entries to the JSON audit log at logPath,
// merging with whatever the file already holds. The log records which
// salt produced the hashes so entries from one session stay
// comparable.
func LogRedactions(logPath, saltHex string, entries []domain.RedactionMatch) error {
	if len(entries) == 0 {
		return nil
	}

	logMu.Lock()
	defer logMu.Unlock()

	record := redactionLog{SaltHex: saltHex}
	if raw, err := os.ReadFile(logPath); err == nil {
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("parse existing log %s: %w", logPath, err)
		}
	}
	record.Entries = append(record.Entries, entries...)

	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log: %w", err)
	}
	if err := os.WriteFile(logPath, raw, 0o600); err != nil {
		return fmt.Errorf("write log %s: %w", logPath, err)
	}
	return nil
}
