package redact

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/logger"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// saltSize is the per-session salt length in bytes.
const saltSize = 16

// scanParallelism bounds concurrent file scans in ScanDirectory.
const scanParallelism = 8

// Ensure Scanner implements the interface.
var _ driven.SensitiveScanner = (*Scanner)(nil)

// Scanner finds sensitive data without retaining it. Each scanner
// carries its own random salt, so hashes are comparable within one
// session and useless across sessions.
type Scanner struct {
	patterns  []namedPattern
	allowlist map[string]bool
	salt      []byte
}

// NewScanner creates a scanner from redaction settings. Custom
// patterns are compiled up front so a bad expression fails here, not
// mid-scan.
func NewScanner(cfg domain.RedactionSettings) (*Scanner, error) {
	patterns, err := compilePatterns(cfg.CustomPatterns)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	allowlist := make(map[string]bool, len(cfg.FalsePositiveAllowlist))
	for _, entry := range cfg.FalsePositiveAllowlist {
		allowlist[entry] = true
	}

	return &Scanner{
		patterns:  patterns,
		allowlist: allowlist,
		salt:      salt,
	}, nil
}

// Salt returns a copy of the session salt so a redactor can hash
// consistently with this scanner's findings.
func (s *Scanner) Salt() []byte {
	out := make([]byte, len(s.salt))
	copy(out, s.salt)
	return out
}

// SaltHex returns the session salt as hex for the redaction log.
func (s *Scanner) SaltHex() string {
	return hex.EncodeToString(s.salt)
}

// hash computes hex(sha256(salt || text)).
func (s *Scanner) hash(text string) string {
	h := sha256.New()
	h.Write(s.salt)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// ScanFile scans one file line by line. A nonexistent path is the one
// fatal failure in scanning; silently skipping it would give false
// confidence that a source is clean.
func (s *Scanner) ScanFile(_ context.Context, path string) ([]domain.RedactionMatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text, _ := normalise.DetectAndDecode(raw)
	var matches []domain.RedactionMatch
	for lineIdx, line := range strings.Split(text, "\n") {
		for _, p := range s.patterns {
			for _, hit := range p.pattern.FindAllString(line, -1) {
				if s.allowlist[hit] {
					continue
				}
				matches = append(matches, domain.RedactionMatch{
					FilePath:   path,
					LineNumber: lineIdx + 1,
					MatchType:  p.name,
					SaltedHash: s.hash(hit),
				})
			}
		}
	}
	return matches, nil
}

// ScanDirectory scans every regular file under root. Files are scanned
// in parallel but results come back in walk order, so repeated scans of
// the same tree report identically.
func (s *Scanner) ScanDirectory(ctx context.Context, root string) ([]domain.RedactionMatch, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, root)
	}
	if !info.IsDir() {
		return s.ScanFile(ctx, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)

	results := make([][]domain.RedactionMatch, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanParallelism)
	for idx, file := range files {
		g.Go(func() error {
			matches, err := s.ScanFile(ctx, file)
			if err != nil {
				return err
			}
			results[idx] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.RedactionMatch
	for _, matches := range results {
		all = append(all, matches...)
	}
	logger.Debug("Scanned %d files under %s: %d matches", len(files), root, len(all))
	return all, nil
}
