package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default().MatchTopK, cfg.MatchTopK)
}

func TestLoadFile_OverridesNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
vector_index_name: file-index
match_top_k: 7
weight_profile: alt
resilience:
  breaker_failure_threshold: 9
  retry_max_attempts: 4
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "file-index", cfg.VectorIndexName)
	assert.Equal(t, 7, cfg.MatchTopK)
	assert.Equal(t, 0.6, cfg.Weights.Semantic)
	assert.Equal(t, 9, cfg.Resilience.BreakerFailureThreshold)
	assert.Equal(t, 4, cfg.Resilience.RetryMaxAttempts)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, Default().VectorQueryTopK, cfg.VectorQueryTopK)
}

func TestLoadFile_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o644))

	_, err := LoadFile(path)

	require.Error(t, err)
}

func TestLoad_ConfigFileEnvVarIsLayeredUnderEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match_top_k: 7\n"), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MATCH_TOP_K", "9")

	cfg := Load()

	assert.Equal(t, 9, cfg.MatchTopK, "env var should win over the file")
}
