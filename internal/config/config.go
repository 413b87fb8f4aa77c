// Package config assembles the process-wide configuration record once at
// startup. Core packages receive a *Config by dependency injection; they
// never read the environment directly (spec §9, "Global environment reads").
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// Resilience holds the breaker/retry tunables for one guarded dependency.
type Resilience struct {
	BreakerFailureThreshold int
	BreakerResetTimeout     time.Duration
	RetryMaxAttempts        int
	RetryBaseDelay          time.Duration
	RetryMaxDelay           time.Duration
}

// Deadlines holds the per-call and per-request timeout budget (spec §5).
type Deadlines struct {
	Request    time.Duration
	Embedding  time.Duration
	VectorQuery time.Duration
	Completion time.Duration
	Persistence time.Duration
}

// Config is the fully-resolved, immutable configuration for one process.
type Config struct {
	VectorIndexName     string
	VectorIndexProvider string
	EmbeddingModel      string
	CompletionModel     string
	AIProvider          string
	MatchTopK        int
	VectorQueryTopK  int
	CatalogRefreshTTL time.Duration
	EmbeddingConcurrency int
	ScoringParallelism   int

	Weights    scoring.Weights
	Resilience Resilience
	Deadlines  Deadlines
}

// Default returns the spec §6 defaults, with no environment applied.
func Default() *Config {
	return &Config{
		VectorIndexName:       "creator-embeddings",
		VectorIndexProvider:   "",
		EmbeddingModel:        "",
		CompletionModel:       "",
		AIProvider:            "",
		MatchTopK:             3,
		VectorQueryTopK:       15,
		CatalogRefreshTTL:     5 * time.Minute,
		EmbeddingConcurrency:  3,
		ScoringParallelism:    8,
		Weights:               scoring.DefaultWeights(),
		Resilience: Resilience{
			BreakerFailureThreshold: 5,
			BreakerResetTimeout:     30 * time.Second,
			RetryMaxAttempts:        3,
			RetryBaseDelay:          200 * time.Millisecond,
			RetryMaxDelay:           5 * time.Second,
		},
		Deadlines: Deadlines{
			Request:     15 * time.Second,
			Embedding:   5 * time.Second,
			VectorQuery: 2 * time.Second,
			Completion:  10 * time.Second,
			Persistence: 2 * time.Second,
		},
	}
}

// Load assembles the configuration from an optional YAML file (path given by
// CONFIG_FILE) layered over Default(), then the process environment layered
// over that. This is the single place in the codebase that calls
// os.Getenv (spec §9).
func Load() *Config {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if fileCfg, err := LoadFile(path); err == nil {
			cfg = fileCfg
		}
	}

	cfg.VectorIndexName = envString("VECTOR_INDEX_NAME", cfg.VectorIndexName)
	cfg.VectorIndexProvider = envString("VECTOR_INDEX_PROVIDER", cfg.VectorIndexProvider)
	cfg.EmbeddingModel = envString("EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.CompletionModel = envString("COMPLETION_MODEL", cfg.CompletionModel)
	cfg.AIProvider = envString("AI_PROVIDER", cfg.AIProvider)

	cfg.MatchTopK = envInt("MATCH_TOP_K", cfg.MatchTopK)
	cfg.VectorQueryTopK = envInt("VECTOR_QUERY_TOP_K", cfg.VectorQueryTopK)
	cfg.CatalogRefreshTTL = envMillis("CATALOG_REFRESH_TTL_MS", cfg.CatalogRefreshTTL)

	cfg.Resilience.BreakerFailureThreshold = envInt("BREAKER_FAILURE_THRESHOLD", cfg.Resilience.BreakerFailureThreshold)
	cfg.Resilience.BreakerResetTimeout = envMillis("BREAKER_RESET_MS", cfg.Resilience.BreakerResetTimeout)
	cfg.Resilience.RetryMaxAttempts = envInt("RETRY_MAX_ATTEMPTS", cfg.Resilience.RetryMaxAttempts)
	cfg.Resilience.RetryBaseDelay = envMillis("RETRY_BASE_DELAY_MS", cfg.Resilience.RetryBaseDelay)
	cfg.Resilience.RetryMaxDelay = envMillis("RETRY_MAX_DELAY_MS", cfg.Resilience.RetryMaxDelay)

	cfg.Deadlines.Request = envMillis("REQUEST_DEADLINE_MS", cfg.Deadlines.Request)

	if os.Getenv("WEIGHT_PROFILE") == "alt" {
		cfg.Weights = scoring.AltWeights()
	}

	return cfg
}

// Validate checks invariants that, if violated, make the config fatal to
// start with (spec §7, ConfigInvalid).
func (c *Config) Validate() error {
	sum := c.Weights.Semantic + c.Weights.Niche + c.Weights.Audience + c.Weights.Value
	if sum < 0.999 || sum > 1.001 {
		return &invalidWeightsError{sum: sum}
	}
	if c.MatchTopK < 1 {
		return errConfig("MATCH_TOP_K must be >= 1")
	}
	if c.VectorQueryTopK < c.MatchTopK {
		return errConfig("VECTOR_QUERY_TOP_K must be >= MATCH_TOP_K")
	}
	return nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envMillis(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Millisecond
		}
	}
	return fallback
}
