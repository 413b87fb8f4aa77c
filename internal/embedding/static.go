package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
)

// StaticEmbedder is a deterministic, hash-based embedder with no external
// dependency: it maps text to a pseudo-random but stable vector by hashing
// the text into D float64 lanes. It exists so the system is runnable
// end-to-end without a live provider, the same offline-first fallback role
// the teacher's static embedder plays for local code search.
type StaticEmbedder struct {
	dim int
}

// NewStaticEmbedder creates a static embedder with output dimension dim.
func NewStaticEmbedder(dim int) *StaticEmbedder {
	if dim < 1 {
		dim = 256
	}
	return &StaticEmbedder{dim: dim}
}

func (s *StaticEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, s.dim)
	seed := sha256.Sum256([]byte(text))

	for i := 0; i < s.dim; i++ {
		// Re-hash the seed with a lane index so each lane is independent.
		lane := sha256.Sum256(append(seed[:], byte(i), byte(i>>8)))
		u := binary.BigEndian.Uint64(lane[:8])
		// Map to [-1, 1].
		vec[i] = float64(u)/float64(^uint64(0))*2 - 1
	}

	return normalizeVector(vec), nil
}

func (s *StaticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *StaticEmbedder) Dimensions() int { return s.dim }

func (s *StaticEmbedder) ModelName() string { return "static-hash" }

func (s *StaticEmbedder) Available(context.Context) bool { return true }

func (s *StaticEmbedder) Close() error { return nil }
