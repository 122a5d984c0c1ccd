package redact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// Redactor substitutes sensitive matches with typed markers. It shares
// the scanner's salt so logged hashes line up with scan findings, and
// it re-matches live content rather than trusting positions from an
// earlier scan that the file may have drifted from.
type Redactor struct {
	patterns  []namedPattern
	allowlist map[string]bool
	salt      []byte
}

// NewRedactor creates a redactor over the same settings and session
// salt as the scanner that found the matches.
func NewRedactor(cfg domain.RedactionSettings, salt []byte) (*Redactor, error) {
	patterns, err := compilePatterns(cfg.CustomPatterns)
	if err != nil {
		return nil, err
	}
	allowlist := make(map[string]bool, len(cfg.FalsePositiveAllowlist))
	for _, entry := range cfg.FalsePositiveAllowlist {
		allowlist[entry] = true
	}
	return &Redactor{
		patterns:  patterns,
		allowlist: allowlist,
		salt:      salt,
	}, nil
}

// RedactContent replaces every non-allowlisted match with a
// "[REDACTED:<name>]" marker. When patternTypes is non-empty only the
// named patterns are applied.
func (r *Redactor) RedactContent(content string, patternTypes []string) string {
	selected := make(map[string]bool, len(patternTypes))
	for _, name := range patternTypes {
		selected[name] = true
	}

	for _, p := range r.patterns {
		if len(selected) > 0 && !selected[p.name] {
			continue
		}
		marker := fmt.Sprintf("[REDACTED:%s]", p.name)
		content = p.pattern.ReplaceAllStringFunc(content, func(hit string) string {
			if r.allowlist[hit] {
				return hit
			}
			if p.template == "" {
				return marker
			}
			return p.pattern.ReplaceAllString(hit, p.template)
		})
	}
	return content
}

// RedactFile rewrites path in place and returns the log entries for
// what was replaced. The entries carry salted hashes only.
func (r *Redactor) RedactFile(ctx context.Context, path string, patternTypes []string) ([]domain.RedactionMatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, _ := normalise.DetectAndDecode(raw)
	entries := r.collectEntries(path, text, patternTypes)
	if len(entries) == 0 {
		return nil, nil
	}

	redacted := r.RedactContent(text, patternTypes)
	if err := os.WriteFile(path, []byte(redacted), 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return entries, nil
}

// collectEntries records what RedactContent is about to replace.
func (r *Redactor) collectEntries(path, text string, patternTypes []string) []domain.RedactionMatch {
	selected := make(map[string]bool, len(patternTypes))
	for _, name := range patternTypes {
		selected[name] = true
	}

	var entries []domain.RedactionMatch
	for lineIdx, line := range strings.Split(text, "\n") {
		for _, p := range r.patterns {
			if len(selected) > 0 && !selected[p.name] {
				continue
			}
			for _, hit := range p.pattern.FindAllString(line, -1) {
				if r.allowlist[hit] {
					continue
				}
				h := sha256.New()
				h.Write(r.salt)
				h.Write([]byte(hit))
				entries = append(entries, domain.RedactionMatch{
					FilePath:   path,
					LineNumber: lineIdx + 1,
					MatchType:  p.name,
					SaltedHash: hex.EncodeToString(h.Sum(nil)),
				})
			}
		}
	}
	return entries
}
