package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached decorates an Embedder with an LRU cache keyed by a SHA-256 hash of
// text+model, adapted from the teacher's CachedEmbedder.
type Cached struct {
	inner Embedder
	cache *lru.Cache[string, []float64]
}

// NewCached wraps inner with an LRU cache of the given size.
func NewCached(inner Embedder, size int) (*Cached, error) {
	if size < 1 {
		size = 1024
	}
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text + "\x00" + c.inner.ModelName()))
	return hex.EncodeToString(h[:])
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	key := c.cacheKey(text)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	v, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, v)
	return v, nil
}

func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	misses := make([]string, 0, len(texts))
	missIdx := make([]int, 0, len(texts))

	for i, text := range texts {
		if v, ok := c.cache.Get(c.cacheKey(text)); ok {
			out[i] = v
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.inner.EmbedBatch(ctx, misses)
	if err != nil {
		return nil, err
	}
	for j, idx := range missIdx {
		out[idx] = fetched[j]
		c.cache.Add(c.cacheKey(misses[j]), fetched[j])
	}
	return out, nil
}

func (c *Cached) Dimensions() int { return c.inner.Dimensions() }

func (c *Cached) ModelName() string { return c.inner.ModelName() }

func (c *Cached) Available(ctx context.Context) bool { return c.inner.Available(ctx) }

func (c *Cached) Close() error { return c.inner.Close() }
