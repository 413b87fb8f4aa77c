package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesSpecDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "creator-embeddings", cfg.VectorIndexName)
	assert.Equal(t, 3, cfg.MatchTopK)
	assert.Equal(t, 15, cfg.VectorQueryTopK)
	assert.Equal(t, 5, cfg.Resilience.BreakerFailureThreshold)
	assert.Equal(t, 3, cfg.Resilience.RetryMaxAttempts)
	require.NoError(t, cfg.Validate())
}

func TestLoad_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("VECTOR_INDEX_NAME", "custom-index")
	t.Setenv("MATCH_TOP_K", "5")
	t.Setenv("WEIGHT_PROFILE", "alt")

	cfg := Load()

	assert.Equal(t, "custom-index", cfg.VectorIndexName)
	assert.Equal(t, 5, cfg.MatchTopK)
	assert.Equal(t, 0.6, cfg.Weights.Semantic)
}

func TestLoad_IgnoresMalformedIntegers(t *testing.T) {
	t.Setenv("MATCH_TOP_K", "not-a-number")

	cfg := Load()

	assert.Equal(t, 3, cfg.MatchTopK)
}

func TestValidate_RejectsTopKInversion(t *testing.T) {
	cfg := Default()
	cfg.VectorQueryTopK = 1
	cfg.MatchTopK = 3

	err := cfg.Validate()

	require.Error(t, err)
}
