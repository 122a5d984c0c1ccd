// Package vault persists rendered fragments into the markdown vault:
// one file per fragment, sorted into platform subfolders, with a
// SQLite index for duplicate detection and a JSON provenance log.
package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/logger"
)

const (
	fragmentsDir  = "01-Fragments"
	metaDir       = "00-Creek-Meta"
	processingDir = "Processing-Log"

	// maxTitleLength bounds sanitised filenames.
	maxTitleLength = 80
)

var titleSanitiser = regexp.MustCompile(`[^\w\s-]`)

// Ensure Writer implements the interface.
var _ driven.VaultWriter = (*Writer)(nil)

// Writer is the filesystem vault writer.
type Writer struct {
	root  string
	index *index

	provMu sync.Mutex
}

// NewWriter opens the vault at root, creating the directory skeleton
// and the fragment index as needed.
func NewWriter(root string) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: vault path not configured", domain.ErrVaultUnavailable)
	}
	for _, dir := range []string{
		filepath.Join(root, fragmentsDir),
		filepath.Join(root, metaDir, processingDir),
	} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrVaultUnavailable, err)
		}
	}

	idx, err := openIndex(filepath.Join(root, metaDir, "index.db"))
	if err != nil {
		return nil, err
	}
	return &Writer{root: root, index: idx}, nil
}

// subfolderFor maps a source platform to its vault subfolder.
func subfolderFor(platform string) string {
	switch platform {
	case "claude", "chatgpt":
		return "Conversations"
	case "discord":
		return "Messages"
	case "essay":
		return "Writing"
	case "journal":
		return "Journal"
	case "code":
		return "Technical"
	default:
		return "Unsorted"
	}
}

// Write stores one rendered fragment. Fragments already present in the
// index are skipped and reported as duplicates.
func (w *Writer) Write(ctx context.Context, fragmentID string, fragment domain.ParsedFragment, markdown string, frontmatter map[string]any) (driven.WriteResult, error) {
	if existing, found, err := w.index.Lookup(ctx, fragmentID); err != nil {
		return driven.WriteResult{}, err
	} else if found {
		logger.Debug("Fragment %s already in vault at %s", fragmentID, existing)
		return driven.WriteResult{Path: existing, Duplicate: true}, nil
	}

	dir := filepath.Join(w.root, fragmentsDir, subfolderFor(fragmentPlatform(fragment, frontmatter)))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return driven.WriteResult{}, fmt.Errorf("create vault folder: %w", err)
	}

	path, err := w.uniquePath(dir, fragment, frontmatter)
	if err != nil {
		return driven.WriteResult{}, err
	}

	content, err := renderFile(markdown, frontmatter)
	if err != nil {
		return driven.WriteResult{}, err
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return driven.WriteResult{}, fmt.Errorf("write fragment: %w", err)
	}
	if err := w.index.Insert(ctx, fragmentID, path); err != nil {
		return driven.WriteResult{}, err
	}
	return driven.WriteResult{Path: path}, nil
}

// fragmentPlatform reads the platform from the frontmatter's source
// block, falling back to the parser's metadata.
func fragmentPlatform(fragment domain.ParsedFragment, frontmatter map[string]any) string {
	if source, ok := frontmatter["source"].(map[string]any); ok {
		if platform, ok := source["platform"].(string); ok && platform != "" {
			return platform
		}
	}
	switch platform := fragment.Metadata["platform"].(type) {
	case string:
		return platform
	case domain.SourcePlatform:
		return platform.String()
	}
	return ""
}

// uniquePath builds "{date}-{title}.md", suffixing -1, -2, ... until
// the name is free.
func (w *Writer) uniquePath(dir string, fragment domain.ParsedFragment, frontmatter map[string]any) (string, error) {
	title, _ := frontmatter["title"].(string)
	if title == "" {
		title, _ = fragment.Metadata["title"].(string)
	}
	base := fmt.Sprintf("%s-%s", fragment.Timestamp.Format("2006-01-02"), sanitiseTitle(title))

	for suffix := 0; ; suffix++ {
		name := base
		if suffix > 0 {
			name = fmt.Sprintf("%s-%d", base, suffix)
		}
		path := filepath.Join(dir, name+".md")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("probe %s: %w", path, err)
		}
	}
}

// sanitiseTitle makes a title filesystem-safe: strip punctuation,
// hyphenate spaces, cap the length.
func sanitiseTitle(title string) string {
	cleaned := titleSanitiser.ReplaceAllString(title, "")
	cleaned = strings.Join(strings.Fields(cleaned), "-")
	if cleaned == "" {
		cleaned = "untitled"
	}
	if len(cleaned) > maxTitleLength {
		cleaned = cleaned[:maxTitleLength]
	}
	return cleaned
}

// renderFile assembles the YAML frontmatter fence and the body.
func renderFile(markdown string, frontmatter map[string]any) (string, error) {
	header, err := yaml.Marshal(frontmatter)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	return fmt.Sprintf("---\n%s---\n\n%s\n", header, markdown), nil
}

// AppendProvenance merges entries into the vault's provenance log.
func (w *Writer) AppendProvenance(entries []domain.ProvenanceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	w.provMu.Lock()
	defer w.provMu.Unlock()

	logPath := filepath.Join(w.root, metaDir, processingDir, "provenance.json")
	var existing []domain.ProvenanceEntry
	if raw, err := os.ReadFile(logPath); err == nil {
		if err := json.Unmarshal(raw, &existing); err != nil {
			return fmt.Errorf("parse provenance log: %w", err)
		}
	}
	existing = append(existing, entries...)

	raw, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("encode provenance log: %w", err)
	}
	if err := os.WriteFile(logPath, raw, 0600); err != nil {
		return fmt.Errorf("write provenance log: %w", err)
	}
	return nil
}

// Close releases the fragment index.
func (w *Writer) Close() error {
	return w.index.Close()
}
