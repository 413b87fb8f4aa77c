package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// fileOverlay is the optional on-disk config layer (spec §6 defaults still
// apply; a file only overrides what it sets). Pointer/zero-value fields left
// unset in the YAML document are left untouched by applyOverlay. This sits
// between Default() and the environment in Load()'s precedence: defaults <
// file < env, matching the teacher's own config/personal-config/env layering.
type fileOverlay struct {
	VectorIndexName     string `yaml:"vector_index_name"`
	VectorIndexProvider string `yaml:"vector_index_provider"`
	EmbeddingModel      string `yaml:"embedding_model"`
	CompletionModel  string `yaml:"completion_model"`
	AIProvider       string `yaml:"ai_provider"`
	MatchTopK        int    `yaml:"match_top_k"`
	VectorQueryTopK  int    `yaml:"vector_query_top_k"`
	WeightProfile    string `yaml:"weight_profile"`

	CatalogRefreshTTLMS int `yaml:"catalog_refresh_ttl_ms"`

	Resilience *fileResilience `yaml:"resilience"`
}

type fileResilience struct {
	BreakerFailureThreshold int `yaml:"breaker_failure_threshold"`
	BreakerResetMS          int `yaml:"breaker_reset_ms"`
	RetryMaxAttempts        int `yaml:"retry_max_attempts"`
	RetryBaseDelayMS        int `yaml:"retry_base_delay_ms"`
	RetryMaxDelayMS         int `yaml:"retry_max_delay_ms"`
}

// LoadFile reads path as a YAML config file and layers it over Default().
// A missing file is not an error; callers that want a required file should
// os.Stat first.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errConfig("read config file: " + err.Error())
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, errConfig("parse config file: " + err.Error())
	}

	applyOverlay(cfg, overlay)
	return cfg, nil
}

func applyOverlay(cfg *Config, overlay fileOverlay) {
	if overlay.VectorIndexName != "" {
		cfg.VectorIndexName = overlay.VectorIndexName
	}
	if overlay.VectorIndexProvider != "" {
		cfg.VectorIndexProvider = overlay.VectorIndexProvider
	}
	if overlay.EmbeddingModel != "" {
		cfg.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.CompletionModel != "" {
		cfg.CompletionModel = overlay.CompletionModel
	}
	if overlay.AIProvider != "" {
		cfg.AIProvider = overlay.AIProvider
	}
	if overlay.MatchTopK > 0 {
		cfg.MatchTopK = overlay.MatchTopK
	}
	if overlay.VectorQueryTopK > 0 {
		cfg.VectorQueryTopK = overlay.VectorQueryTopK
	}
	if overlay.CatalogRefreshTTLMS > 0 {
		cfg.CatalogRefreshTTL = time.Duration(overlay.CatalogRefreshTTLMS) * time.Millisecond
	}
	if overlay.WeightProfile == "alt" {
		cfg.Weights = scoring.AltWeights()
	}
	if r := overlay.Resilience; r != nil {
		if r.BreakerFailureThreshold > 0 {
			cfg.Resilience.BreakerFailureThreshold = r.BreakerFailureThreshold
		}
		if r.BreakerResetMS > 0 {
			cfg.Resilience.BreakerResetTimeout = time.Duration(r.BreakerResetMS) * time.Millisecond
		}
		if r.RetryMaxAttempts > 0 {
			cfg.Resilience.RetryMaxAttempts = r.RetryMaxAttempts
		}
		if r.RetryBaseDelayMS > 0 {
			cfg.Resilience.RetryBaseDelay = time.Duration(r.RetryBaseDelayMS) * time.Millisecond
		}
		if r.RetryMaxDelayMS > 0 {
			cfg.Resilience.RetryMaxDelay = time.Duration(r.RetryMaxDelayMS) * time.Millisecond
		}
	}
}
