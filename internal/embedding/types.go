// Package embedding implements the Embedding Adapter (spec §4.3): a
// deterministic text-to-vector map over a pluggable external provider, with
// bounded batch concurrency and an LRU cache in front of it.
package embedding

import (
	"context"
	"math"
)

// Embedder is the capability every provider and decorator implements.
type Embedder interface {
	// Embed maps a single piece of text to a fixed-dimension vector.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch maps multiple texts concurrently, bounded by an internal
	// concurrency cap (default C=3, spec §4.3).
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions reports the fixed output dimension D.
	Dimensions() int

	// ModelName reports the provider-specific model identifier.
	ModelName() string

	// Available reports whether the provider can currently serve requests,
	// without counting against the circuit breaker.
	Available(ctx context.Context) bool

	// Close releases any held resources (connections, caches).
	Close() error
}

// normalizeVector L2-normalizes v in place and returns it, so cosine
// similarity reduces to a dot product downstream.
func normalizeVector(v []float64) []float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	for i := range v {
		v[i] /= norm
	}
	return v
}
