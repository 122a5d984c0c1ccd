// Package redact finds and redacts sensitive data in source files
// before they enter the vault. Matched text is never retained: scans
// report only salted hashes, and the salt lives for one session.
package redact

import (
	"fmt"
	"regexp"
	"sort"
)

// namedPattern pairs a pattern name with its compiled expression.
// Order matters: findings are reported built-ins first, then custom
// patterns by name.
type namedPattern struct {
	name    string
	pattern *regexp.Regexp

	// template, when set, is the expansion used to redact a match.
	// It lets a pattern keep non-secret context, e.g. the "password="
	// key while the value is replaced. Empty means the whole match is
	// replaced by the marker.
	template string
}

// builtinPatterns returns the default sensitive-data patterns.
func builtinPatterns() []namedPattern {
	return []namedPattern{
		{name: "api_key", pattern: regexp.MustCompile(`AKIA[0-9A-Z]{16}|sk[-_][a-zA-Z0-9_-]{20,}`)},
		{
			name:     "password",
			pattern:  regexp.MustCompile(`(?i)((?:password|passwd)\s*=\s*)\S+`),
			template: "${1}[REDACTED:password]",
		},
		{name: "ssn", pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
		{name: "email", pattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	}
}

// compilePatterns merges custom patterns over the built-ins. A custom
// pattern sharing a built-in's name replaces it in place; new names are
// appended sorted so scan order stays deterministic.
func compilePatterns(custom map[string]string) ([]namedPattern, error) {
	patterns := builtinPatterns()
	byName := make(map[string]int, len(patterns))
	for idx, p := range patterns {
		byName[p.name] = idx
	}

	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		compiled, err := regexp.Compile(custom[name])
		if err != nil {
			return nil, fmt.Errorf("compile custom pattern %q: %w", name, err)
		}
		if idx, ok := byName[name]; ok {
			// A replaced expression invalidates the built-in's capture
			// groups, so the override redacts the whole match.
			patterns[idx].pattern = compiled
			patterns[idx].template = ""
			continue
		}
		patterns = append(patterns, namedPattern{name: name, pattern: compiled})
	}
	return patterns, nil
}
