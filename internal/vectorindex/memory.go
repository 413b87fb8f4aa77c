package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/coder/hnsw"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
)

// MemoryIndex is an in-process Index backed by coder/hnsw, adapted from the
// teacher's HNSWStore. It is the reference implementation used for local
// development and the test suite, so the system runs end-to-end without a
// live external ANN service (spec SUPPLEMENTED FEATURES).
type MemoryIndex struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[uint64]
	name  string
	dim   int

	idMap   map[string]uint64
	keyMap  map[uint64]string
	meta    map[string]map[string]string
	nextKey uint64

	closed bool
}

// NewMemoryIndex creates an empty, unconfigured index; EnsureIndex sets its
// name and dimension.
func NewMemoryIndex() *MemoryIndex {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	return &MemoryIndex{
		graph:  graph,
		idMap:  make(map[string]uint64),
		keyMap: make(map[uint64]string),
		meta:   make(map[string]map[string]string),
	}
}

func (m *MemoryIndex) EnsureIndex(ctx context.Context, name string, dim int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.name == "" {
		m.name = name
		m.dim = dim
		return nil
	}
	if m.name != name {
		return domainerrors.ConfigInvalid(fmt.Sprintf("index already initialized as %q, cannot reuse as %q", m.name, name), nil)
	}
	if m.dim != dim {
		return domainerrors.ConfigInvalid(fmt.Sprintf("index dimension mismatch: configured %d, requested %d", m.dim, dim), nil)
	}
	return nil
}

func (m *MemoryIndex) Upsert(ctx context.Context, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	if len(vectors) > maxBatchSize {
		return domainerrors.Validation(fmt.Sprintf("upsert batch of %d exceeds max batch size %d", len(vectors), maxBatchSize))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domainerrors.Internal("index is closed", nil)
	}

	for _, v := range vectors {
		if m.dim > 0 && len(v.Values) != m.dim {
			return domainerrors.ConfigInvalid(fmt.Sprintf("vector dimension mismatch: expected %d, got %d", m.dim, len(v.Values)), nil)
		}
	}

	for _, v := range vectors {
		// Lazy deletion on re-upsert: orphan the old key rather than calling
		// graph.Delete, which mishandles removing the last node.
		if existingKey, exists := m.idMap[v.ID]; exists {
			delete(m.keyMap, existingKey)
			delete(m.idMap, v.ID)
		}

		vec := make([]float32, len(v.Values))
		copy(vec, v.Values)
		normalizeInPlace(vec)

		key := m.nextKey
		m.nextKey++

		m.graph.Add(hnsw.MakeNode(key, vec))
		m.idMap[v.ID] = key
		m.keyMap[key] = v.ID
		m.meta[v.ID] = v.Metadata
	}

	return nil
}

func (m *MemoryIndex) Query(ctx context.Context, v []float32, topK int, filter map[string]string) ([]Result, error) {
	topK = clampTopK(topK)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, domainerrors.Internal("index is closed", nil)
	}
	if m.dim > 0 && len(v) != m.dim {
		return nil, domainerrors.ConfigInvalid(fmt.Sprintf("query dimension mismatch: expected %d, got %d", m.dim, len(v)), nil)
	}
	if m.graph.Len() == 0 {
		return []Result{}, nil
	}

	query := make([]float32, len(v))
	copy(query, v)
	normalizeInPlace(query)

	nodes := m.graph.Search(query, topK)
	results := make([]Result, 0, len(nodes))
	for _, node := range nodes {
		id, ok := m.keyMap[node.Key]
		if !ok {
			continue // lazily-deleted node
		}
		meta := m.meta[id]
		if !matchesFilter(meta, filter) {
			continue
		}

		distance := m.graph.Distance(query, node.Value)
		results = append(results, Result{
			ID:       id,
			Score:    1.0 - distance, // cosine distance in [0,2] -> cosine similarity in [-1,1]
			Metadata: meta,
		})
	}

	return results, nil
}

func (m *MemoryIndex) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{VectorCount: len(m.idMap), Dimension: m.dim}, nil
}

func (m *MemoryIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func matchesFilter(meta map[string]string, filter map[string]string) bool {
	for k, v := range filter {
		if meta[k] != v {
			return false
		}
	}
	return true
}

func normalizeInPlace(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sumSq))
	for i := range v {
		v[i] *= inv
	}
}
