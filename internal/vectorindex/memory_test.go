package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/drumbeatlabs/creatormatch/internal/errors"
)

func TestMemoryIndex_EnsureIndexIsIdempotent(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, idx.EnsureIndex(ctx, "creator-embeddings", 4))
	require.NoError(t, idx.EnsureIndex(ctx, "creator-embeddings", 4))
}

func TestMemoryIndex_EnsureIndexRejectsDimensionMismatch(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureIndex(ctx, "creator-embeddings", 4))

	err := idx.EnsureIndex(ctx, "creator-embeddings", 8)

	require.Error(t, err)
	assert.Equal(t, domainerrors.ErrCodeConfigInvalid, domainerrors.CodeOf(err))
}

func TestMemoryIndex_UpsertThenQueryReturnsNearest(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureIndex(ctx, "creator-embeddings", 2))

	require.NoError(t, idx.Upsert(ctx, []Vector{
		{ID: "close", Values: []float32{1, 0}},
		{ID: "far", Values: []float32{0, 1}},
	}))

	results, err := idx.Query(ctx, []float32{1, 0}, 2, nil)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "close", results[0].ID)
}

func TestMemoryIndex_UpsertIsIdempotentOnID(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureIndex(ctx, "creator-embeddings", 2))

	require.NoError(t, idx.Upsert(ctx, []Vector{{ID: "a", Values: []float32{1, 0}}}))
	require.NoError(t, idx.Upsert(ctx, []Vector{{ID: "a", Values: []float32{0, 1}}}))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.VectorCount)
}

func TestMemoryIndex_QueryOnEmptyIndexReturnsEmpty(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureIndex(ctx, "creator-embeddings", 2))

	results, err := idx.Query(ctx, []float32{1, 0}, 10, nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryIndex_UpsertRejectsOversizedBatch(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	require.NoError(t, idx.EnsureIndex(ctx, "creator-embeddings", 2))

	vectors := make([]Vector, maxBatchSize+1)
	for i := range vectors {
		vectors[i] = Vector{ID: "v", Values: []float32{1, 0}}
	}

	err := idx.Upsert(ctx, vectors)

	require.Error(t, err)
}

func TestClampTopK_BoundsToContract(t *testing.T) {
	assert.Equal(t, 1, clampTopK(0))
	assert.Equal(t, 1, clampTopK(-5))
	assert.Equal(t, 100, clampTopK(500))
	assert.Equal(t, 15, clampTopK(15))
}
