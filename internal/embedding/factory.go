package embedding

import "github.com/drumbeatlabs/creatormatch/internal/config"

// New selects an embedder implementation from cfg and wraps it in a cache.
// AIProvider == "" (no credentials configured) falls back to the static
// hash-based embedder so the system stays runnable offline.
func New(cfg *config.Config) (Embedder, error) {
	var base Embedder
	switch cfg.AIProvider {
	case "", "static":
		base = NewStaticEmbedder(768)
	default:
		base = NewHTTPEmbedder(HTTPEmbedderConfig{
			BaseURL:     cfg.AIProvider,
			Model:       cfg.EmbeddingModel,
			Concurrency: cfg.EmbeddingConcurrency,
		})
	}

	return NewCached(base, 4096)
}
