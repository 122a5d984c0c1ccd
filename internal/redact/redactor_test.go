package redact

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

func newTestRedactor(t *testing.T, cfg domain.RedactionSettings) *Redactor {
	t.Helper()
	s := newTestScanner(t, cfg)
	r, err := NewRedactor(cfg, s.Salt())
	require.NoError(t, err)
	return r
}

func TestRedactContentPassword(t *testing.T) {
	r := newTestRedactor(t, domain.RedactionSettings{})
	got := r.RedactContent("password=hunter2", nil)
	assert.Equal(t, "password=[REDACTED:password]", got)
}

func TestRedactContentPreservesAllowlisted(t *testing.T) {
	cfg := domain.RedactionSettings{FalsePositiveAllowlist: []string{"support@example.com"}}
	r := newTestRedactor(t, cfg)
	got := r.RedactContent("write to support@example.com or secret@example.com", nil)
	assert.Contains(t, got, "support@example.com")
	assert.Contains(t, got, "[REDACTED:email]")
	assert.NotContains(t, got, "secret@example.com")
}

func TestRedactContentFiltersPatternTypes(t *testing.T) {
	r := newTestRedactor(t, domain.RedactionSettings{})
	content := "password=hunter2 and sam@example.com"
	got := r.RedactContent(content, []string{"email"})
	assert.Contains(t, got, "password=hunter2")
	assert.Contains(t, got, "[REDACTED:email]")
}

func TestRedactFileRewritesAndLogs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("my password=hunter2 here\n"), 0o600))

	cfg := domain.RedactionSettings{}
	scanner := newTestScanner(t, cfg)
	r, err := NewRedactor(cfg, scanner.Salt())
	require.NoError(t, err)

	entries, err := r.RedactFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "password", entries[0].MatchType)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "my [REDACTED:password] here\n", string(rewritten))

	logPath := filepath.Join(dir, "log.json")
	require.NoError(t, LogRedactions(logPath, scanner.SaltHex(), entries))

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")

	var record struct {
		SaltHex string                  `json:"salt_hex"`
		Entries []domain.RedactionMatch `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(raw, &record))
	assert.Equal(t, scanner.SaltHex(), record.SaltHex)
	require.Len(t, record.Entries, 1)
	assert.Equal(t, entries[0].SaltedHash, record.Entries[0].SaltedHash)
}

func TestRedactFileNoMatchesLeavesFileAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean.txt")
	require.NoError(t, os.WriteFile(path, []byte("nothing sensitive\n"), 0o600))

	r := newTestRedactor(t, domain.RedactionSettings{})
	entries, err := r.RedactFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nothing sensitive\n", string(raw))
}

func TestLogRedactionsAppendsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "log.json")

	first := []domain.RedactionMatch{{FilePath: "/a", LineNumber: 1, MatchType: "email", SaltedHash: "h1"}}
	second := []domain.RedactionMatch{{FilePath: "/b", LineNumber: 2, MatchType: "ssn", SaltedHash: "h2"}}

	require.NoError(t, LogRedactions(logPath, "deadbeef", first))
	require.NoError(t, LogRedactions(logPath, "deadbeef", second))

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	var record redactionLog
	require.NoError(t, json.Unmarshal(raw, &record))
	require.Len(t, record.Entries, 2)
	assert.Equal(t, "h1", record.Entries[0].SaltedHash)
	assert.Equal(t, "h2", record.Entries[1].SaltedHash)
}

func TestScannerAndRedactorHashesAgree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "creds.txt")
	require.NoError(t, os.WriteFile(path, []byte("password=hunter2\n"), 0o600))

	cfg := domain.RedactionSettings{}
	scanner := newTestScanner(t, cfg)
	scanMatches, err := scanner.ScanFile(context.Background(), path)
	require.NoError(t, err)

	r, err := NewRedactor(cfg, scanner.Salt())
	require.NoError(t, err)
	entries, err := r.RedactFile(context.Background(), path, nil)
	require.NoError(t, err)

	require.Len(t, scanMatches, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, scanMatches[0].SaltedHash, entries[0].SaltedHash)
}
