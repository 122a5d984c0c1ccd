// Package classify provides the keyword rule classifier. It is
// deliberately simple: fragments get an advisory category from keyword
// counts, and anything ambiguous is flagged for human review by the
// pipeline's confidence threshold.
package classify

import (
	"strings"

	"github.com/creek-labs/creek-cli/internal/core/domain"
	"github.com/creek-labs/creek-cli/internal/core/ports/driven"
)

// Ensure RuleClassifier implements the interface.
var _ driven.Classifier = (*RuleClassifier)(nil)

// categoryKeywords maps each category to the keywords that vote for it.
var categoryKeywords = map[string][]string{
	"technical": {"code", "api", "function", "bug", "deploy", "database", "server", "config"},
	"personal":  {"feel", "feeling", "friend", "family", "health", "dream", "grateful"},
	"work":      {"meeting", "project", "deadline", "client", "review", "standup"},
	"creative":  {"story", "poem", "draft", "character", "scene", "chapter"},
}

// RuleClassifier assigns categories by keyword voting.
type RuleClassifier struct{}

// New creates a rule classifier.
func New() *RuleClassifier {
	return &RuleClassifier{}
}

// Classify counts keyword hits per category over the fragment content.
// Confidence grows with the winning category's share of all hits; a
// fragment with no hits is unclassified at zero confidence.
func (c *RuleClassifier) Classify(fragment domain.ParsedFragment) (driven.Classification, error) {
	text := strings.ToLower(fragment.Content)

	best := ""
	bestHits := 0
	totalHits := 0
	for _, category := range []string{"technical", "personal", "work", "creative"} {
		hits := 0
		for _, keyword := range categoryKeywords[category] {
			hits += strings.Count(text, keyword)
		}
		totalHits += hits
		if hits > bestHits {
			best = category
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return driven.Classification{Category: "unclassified"}, nil
	}
	return driven.Classification{
		Category:   best,
		Confidence: float64(bestHits) / float64(totalHits),
	}, nil
}
