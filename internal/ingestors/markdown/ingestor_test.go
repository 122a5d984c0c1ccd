package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

func TestParseSplitsFrontmatter(t *testing.T) {
	content := "---\ntitle: My note\ndate: 2024-03-01\n---\n# Heading\n\nBody text."
	fragments, err := New().Parse(domain.RawDocument{Path: "note.md", Content: []byte(content)})
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	f := fragments[0]
	assert.Equal(t, "# Heading\n\nBody text.", f.Content)
	header, ok := f.Metadata["existing_frontmatter"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "My note", header["title"])
	assert.Equal(t, 2024, f.Timestamp.UTC().Year())
}

func TestParseMalformedFrontmatterBecomesBody(t *testing.T) {
	content := "---\n: not valid yaml [\n---\nBody."
	fragments, err := New().Parse(domain.RawDocument{Path: "note.md", Content: []byte(content)})
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, content, fragments[0].Content)
	assert.Nil(t, fragments[0].Metadata["existing_frontmatter"])
}

func TestScoreType(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"journal", "2024-03-01\nToday I went for a walk and reflected on things.", "journal"},
		{"essay", "# Introduction\n\nMy thesis is simple.\n\n## Conclusion", "essay"},
		{"technical", "The API configuration uses this function:\n```go\nfunc main() {}\n```", "technical"},
		{"single hit stays notes", "Today I did nothing else noteworthy at all now.", "notes"},
		{"empty", "   \n", "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreType(tt.body))
		})
	}
}

func TestResolvePlatformPathHeuristics(t *testing.T) {
	assert.Equal(t, domain.PlatformJournal, resolvePlatform("notes", "/vault/daily/2024.md"))
	assert.Equal(t, domain.PlatformEssay, resolvePlatform("notes", "/vault/writing/piece.md"))
	assert.Equal(t, domain.PlatformOther, resolvePlatform("notes", "/vault/misc/x.md"))
	assert.Equal(t, domain.PlatformCode, resolvePlatform("technical", "/anything.md"))
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "My Heading", extractTitle("# My Heading\n\ntext", "x.md"))
	assert.Equal(t, "weekly-review", extractTitle("no heading", "/notes/weekly-review.md"))
	assert.Equal(t, "trip_notes", extractTitle("", "trip_notes.md"))
}

func TestDeriveMetadataExistingKeysWin(t *testing.T) {
	f := domain.ParsedFragment{
		SourcePath: "/notes/note.md",
		Metadata: map[string]any{
			"title":    "Derived title",
			"platform": domain.PlatformOther,
			"existing_frontmatter": map[string]any{
				"title": "Original title",
				"tags":  []any{"keep"},
			},
		},
	}
	meta, err := New().DeriveMetadata(f)
	require.NoError(t, err)

	assert.Equal(t, "Original title", meta["title"])
	assert.Equal(t, []any{"keep"}, meta["tags"])
	assert.Equal(t, "fragment", meta["type"])

	source, ok := meta["source"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "other", source["platform"])
}

func TestRenderReturnsBodyUnchanged(t *testing.T) {
	f := domain.ParsedFragment{Content: "# Hi\n\nbody"}
	got, err := New().Render(f)
	require.NoError(t, err)
	assert.Equal(t, "# Hi\n\nbody", got)
}

func TestDiscoverSingleFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "one.md")
	require.NoError(t, os.WriteFile(file, []byte("# One"), 0o600))

	docs, err := New().Discover(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, file, docs[0].Path)
}

func TestDiscoverRecursiveSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.md"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o600))

	docs, err := New().Discover(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, filepath.Join(dir, "b.md"), docs[0].Path)
	assert.Equal(t, filepath.Join(dir, "sub", "a.md"), docs[1].Path)
}

func TestDiscoverMissingPath(t *testing.T) {
	docs, err := New().Discover(context.Background(), "/no/such/path")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
