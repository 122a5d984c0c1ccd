// Package markdown ingests existing markdown notes.
//
// Unlike the export ingestors this one wraps documents that are already
// markdown: it classifies each file as journal, essay or technical
// writing by content heuristics, and folds any existing frontmatter
// into the derived metadata with the existing keys winning.
package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
	"github.com/creek-labs/creek-cli/internal/normalise"
)

// typeScoreThreshold is the minimum heuristic score for a document to
// be assigned a type other than "notes".
const typeScoreThreshold = 2

var (
	journalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`(?i)dear diary`),
		regexp.MustCompile(`(?i)today i`),
		regexp.MustCompile(`(?i)reflect(ed|ing)?`),
	}
	essayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^#{1,2} introduction`),
		regexp.MustCompile(`(?mi)^#{1,2} conclusion`),
		regexp.MustCompile(`(?i)thesis`),
		regexp.MustCompile(`(?i)in this essay`),
	}
	technicalPatterns = []*regexp.Regexp{
		regexp.MustCompile("```\\w+"),
		regexp.MustCompile(`(?i)\bapi\b`),
		regexp.MustCompile(`(?i)configuration`),
		regexp.MustCompile(`(?i)function`),
	}

	titlePattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// Ensure Ingestor implements the interface.
var _ driven.Ingestor = (*Ingestor)(nil)

// Ingestor handles existing markdown documents.
type Ingestor struct{}

// New creates a new markdown ingestor.
func New() *Ingestor {
	return &Ingestor{}
}

// Name identifies the ingestor.
func (i *Ingestor) Name() string {
	return "markdown"
}

// Discover accepts a single file or walks a directory tree for *.md
// files. A missing path yields zero documents.
func (i *Ingestor) Discover(_ context.Context, path string) ([]domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil
	}

	var files []string
	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".md") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	var docs []domain.RawDocument
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return docs, fmt.Errorf("read %s: %w", file, err)
		}
		text, charset := normalise.DetectAndDecode(raw)
		docs = append(docs, domain.RawDocument{
			Path:             file,
			Content:          []byte(text),
			DetectedEncoding: charset,
		})
	}
	return docs, nil
}

// Parse wraps the whole file as one fragment, splitting any existing
// frontmatter from the body and classifying the content.
func (i *Ingestor) Parse(raw domain.RawDocument) ([]domain.ParsedFragment, error) {
	header, body := splitFrontmatter(string(raw.Content))

	docType := scoreType(body)
	platform := resolvePlatform(docType, raw.Path)
	title := extractTitle(body, raw.Path)

	return []domain.ParsedFragment{{
		Content:    body,
		SourcePath: raw.Path,
		Timestamp:  documentTimestamp(header, raw.Path),
		Metadata: map[string]any{
			"title":                title,
			"doc_type":             docType,
			"platform":             platform,
			"existing_frontmatter": header,
		},
	}}, nil
}

// splitFrontmatter separates a leading YAML fence from the body. A
// header that fails to parse is treated as absent and the whole file
// becomes the body.
func splitFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, content
	}
	headerText := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	var header map[string]any
	if err := yaml.Unmarshal([]byte(headerText), &header); err != nil {
		return nil, content
	}
	return header, body
}

// scoreType counts heuristic pattern hits per type and assigns the
// winner if it clears the threshold.
func scoreType(body string) string {
	if strings.TrimSpace(body) == "" {
		return "notes"
	}

	scores := []struct {
		name     string
		patterns []*regexp.Regexp
	}{
		{"journal", journalPatterns},
		{"essay", essayPatterns},
		{"technical", technicalPatterns},
	}

	best := "notes"
	bestScore := 0
	for _, candidate := range scores {
		score := 0
		for _, pattern := range candidate.patterns {
			if pattern.MatchString(body) {
				score++
			}
		}
		if score > bestScore {
			best = candidate.name
			bestScore = score
		}
	}
	if bestScore < typeScoreThreshold {
		return "notes"
	}
	return best
}

// resolvePlatform maps the scored type to a platform, using path
// heuristics for unclassified notes.
func resolvePlatform(docType, path string) domain.SourcePlatform {
	switch docType {
	case "journal":
		return domain.PlatformJournal
	case "essay":
		return domain.PlatformEssay
	case "technical":
		return domain.PlatformCode
	}

	lower := strings.ToLower(filepath.ToSlash(path))
	switch {
	case strings.Contains(lower, "/daily/"),
		strings.Contains(lower, "/journal/"),
		strings.Contains(lower, "/diary/"):
		return domain.PlatformJournal
	case strings.Contains(lower, "/essay"),
		strings.Contains(lower, "/writing/"):
		return domain.PlatformEssay
	}
	return domain.PlatformOther
}

// documentTimestamp prefers a frontmatter date, then the file's
// modification time.
func documentTimestamp(header map[string]any, path string) time.Time {
	for _, key := range []string{"date", "created", "created_at"} {
		value, ok := header[key]
		if !ok {
			continue
		}
		text := fmt.Sprintf("%v", value)
		if ts, err := normalise.Timestamp(text, ""); err == nil {
			return ts
		}
		break
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime().In(normalise.Zone())
	}
	return time.Now().In(normalise.Zone())
}

// extractTitle uses the first heading, then the filename stem as-is.
func extractTitle(body, path string) string {
	if m := titlePattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Render returns the body unchanged; the document is already markdown.
func (i *Ingestor) Render(fragment domain.ParsedFragment) (string, error) {
	return fragment.Content, nil
}

// DeriveMetadata merges derived defaults under the document's existing
// frontmatter. Existing keys win wholesale; a document that already
// declares a title or source keeps it.
func (i *Ingestor) DeriveMetadata(fragment domain.ParsedFragment) (map[string]any, error) {
	title, _ := fragment.Metadata["title"].(string)
	platform, _ := fragment.Metadata["platform"].(domain.SourcePlatform)

	merged := map[string]any{
		"type":    "fragment",
		"title":   title,
		"created": fragment.Timestamp.Format(time.RFC3339),
		"source": map[string]any{
			"platform":      platform.String(),
			"original_file": fragment.SourcePath,
		},
	}
	if existing, ok := fragment.Metadata["existing_frontmatter"].(map[string]any); ok {
		for key, value := range existing {
			merged[key] = value
		}
	}
	return merged, nil
}
