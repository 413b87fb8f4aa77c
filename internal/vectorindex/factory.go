package vectorindex

import "github.com/drumbeatlabs/creatormatch/internal/config"

// New selects an Index implementation from cfg, mirroring
// embedding.New/completion.New's provider-switch shape. An unset
// VectorIndexProvider keeps the system runnable without a live external ANN
// service; any other value is treated as the base URL of a RemoteIndex.
func New(cfg *config.Config) Index {
	switch cfg.VectorIndexProvider {
	case "", "memory":
		return NewMemoryIndex()
	default:
		return NewRemoteIndex(RemoteIndexConfig{BaseURL: cfg.VectorIndexProvider})
	}
}
