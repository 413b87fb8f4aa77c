package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func matchWith(id string, niche int, semantic, score float64, followers, hearts int64) Match {
	return Match{
		Creator:    Creator{ID: id, FollowerCount: followers, HeartCount: hearts},
		MatchScore: score,
		ScoreBreakdown: ScoreBreakdown{
			NicheAlignment:     niche,
			SemanticSimilarity: semantic,
		},
	}
}

func TestRank_EmptyInputYieldsEmptyOutput(t *testing.T) {
	// Given no matches
	ranked := Rank(nil)

	// Then the ranked output is empty, not nil-in-a-way-that-breaks-json
	assert.Empty(t, ranked)
}

func TestRank_OrdersByNicheAlignmentFirst(t *testing.T) {
	low := matchWith("low", 1, 0.9, 0.9, 10, 0)
	high := matchWith("high", 2, 0.1, 0.1, 10, 0)

	ranked := Rank([]Match{low, high})

	assert.Equal(t, "high", ranked[0].Creator.ID)
}

func TestRank_SemanticTiesWithinEpsilonFallThrough(t *testing.T) {
	// Given two matches whose semantic similarity differs by less than the
	// epsilon, the ranker must fall through to matchScore
	a := matchWith("a", 0, 0.500, 0.80, 10, 0)
	b := matchWith("b", 0, 0.505, 0.70, 10, 0)

	ranked := Rank([]Match{b, a})

	assert.Equal(t, "a", ranked[0].Creator.ID)
}

func TestRank_IsStableOnFullTies(t *testing.T) {
	// Given two matches tied on every rank key
	a := matchWith("first", 1, 0.5, 0.5, 100, 10)
	b := matchWith("second", 1, 0.5, 0.5, 100, 10)

	ranked := Rank([]Match{a, b})

	// Then input order is preserved (spec §8, invariant 9)
	assert.Equal(t, []string{"first", "second"}, idsOf(ranked))
}

func TestRank_IsIdempotent(t *testing.T) {
	matches := []Match{
		matchWith("a", 2, 0.9, 0.9, 10, 1),
		matchWith("b", 1, 0.5, 0.5, 10, 1),
		matchWith("c", 3, 0.1, 0.1, 10, 1),
	}

	once := Rank(matches)
	twice := Rank(once)

	assert.Equal(t, once, twice)
}
