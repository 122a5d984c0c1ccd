package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creek-labs/creek-cli/internal/core/domain"
)

func TestClassifyTechnical(t *testing.T) {
	f := domain.ParsedFragment{Content: "Fixed a bug in the API code, then updated the server config."}
	got, err := New().Classify(f)
	require.NoError(t, err)
	assert.Equal(t, "technical", got.Category)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestClassifyMixedContentLowersConfidence(t *testing.T) {
	f := domain.ParsedFragment{Content: "Meeting about the project deadline; I feel my friend would enjoy this code."}
	got, err := New().Classify(f)
	require.NoError(t, err)
	assert.Equal(t, "work", got.Category)
	assert.Less(t, got.Confidence, 1.0)
	assert.Greater(t, got.Confidence, 0.0)
}

func TestClassifyNoHits(t *testing.T) {
	f := domain.ParsedFragment{Content: "Nothing matching here."}
	got, err := New().Classify(f)
	require.NoError(t, err)
	assert.Equal(t, "unclassified", got.Category)
	assert.Zero(t, got.Confidence)
}
