package redact

import (
	"fmt"
	"sort"
	"strings"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// FormatReport renders scan findings grouped by type and by file.
// The report carries counts and locations only; matched text is not
// available to leak.
func FormatReport(matches []domain.RedactionMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Redaction scan complete: %d finding(s).\n", len(matches))
	if len(matches) == 0 {
		return b.String()
	}

	byType := make(map[string]int)
	byFile := make(map[string][]domain.RedactionMatch)
	for _, m := range matches {
		byType[m.MatchType]++
		byFile[m.FilePath] = append(byFile[m.FilePath], m)
	}

	b.WriteString("\nBy type:\n")
	types := make([]string, 0, len(byType))
	for name := range byType {
		types = append(types, name)
	}
	sort.Strings(types)
	for _, name := range types {
		fmt.Fprintf(&b, "  %s: %d\n", name, byType[name])
	}

	b.WriteString("\nBy file:\n")
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		fmt.Fprintf(&b, "  %s:\n", file)
		for _, m := range byFile[file] {
			fmt.Fprintf(&b, "    line %d: %s\n", m.LineNumber, m.MatchType)
		}
	}
	return b.String()
}
