package driven

import (
	"github.com/creek-labs/creek-cli/internal/core/domain"
)

// Classification is the outcome of classifying one fragment.
type Classification struct {
	// Category is the assigned label (e.g. "technical", "personal").
	Category string

	// Confidence is the classifier's certainty in [0, 1].
	Confidence float64

	// NeedsReview marks fragments below the confidence threshold.
	NeedsReview bool
}

// Classifier assigns a category to a fragment after ingestion.
// Implementations may be rule-based or model-backed; the pipeline
// treats the result as advisory metadata.
type Classifier interface {
	// Classify categorises one fragment.
	Classify(fragment domain.ParsedFragment) (Classification, error)
}
