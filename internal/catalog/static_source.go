package catalog

import (
	"context"

	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// StaticSource is a fixed in-memory Source, useful for tests and for small
// deployments seeded from a bundled file rather than a database.
type StaticSource struct {
	Creators []scoring.Creator
}

func (s StaticSource) ListAll(ctx context.Context) ([]scoring.Creator, error) {
	out := make([]scoring.Creator, len(s.Creators))
	copy(out, s.Creators)
	return out, nil
}
