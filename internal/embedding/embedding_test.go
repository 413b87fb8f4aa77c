package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedder_IsDeterministic(t *testing.T) {
	// Given the same text embedded twice
	e := NewStaticEmbedder(16)

	first, err := e.Embed(context.Background(), "teen finance creator")
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), "teen finance creator")
	require.NoError(t, err)

	// Then the vectors are identical
	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestStaticEmbedder_DifferentTextDifferentVector(t *testing.T) {
	e := NewStaticEmbedder(16)

	a, _ := e.Embed(context.Background(), "investing")
	b, _ := e.Embed(context.Background(), "cooking")

	assert.NotEqual(t, a, b)
}

func TestStaticEmbedder_EmbedBatchMatchesEmbed(t *testing.T) {
	e := NewStaticEmbedder(8)

	single, _ := e.Embed(context.Background(), "hello")
	batch, err := e.EmbedBatch(context.Background(), []string{"hello"})

	require.NoError(t, err)
	assert.Equal(t, single, batch[0])
}

func TestCached_ReturnsSameValueWithoutRecomputing(t *testing.T) {
	// Given a cached static embedder
	base := NewStaticEmbedder(8)
	c, err := NewCached(base, 16)
	require.NoError(t, err)

	first, err := c.Embed(context.Background(), "niche finance")
	require.NoError(t, err)
	second, err := c.Embed(context.Background(), "niche finance")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCached_EmbedBatchFillsFromCacheAndMisses(t *testing.T) {
	base := NewStaticEmbedder(8)
	c, err := NewCached(base, 16)
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "cached-one")
	require.NoError(t, err)

	batch, err := c.EmbedBatch(context.Background(), []string{"cached-one", "fresh-two"})
	require.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.NotNil(t, batch[0])
	assert.NotNil(t, batch[1])
}
