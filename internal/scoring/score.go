package scoring

import (
	"math"
	"strings"
)

// round4 rounds to four decimals for stable equality (spec §4.1).
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Score computes a Match for a single (assignment, creator, semanticScore)
// triple. It is pure: no I/O, no clocks, no randomness, and byte-equal
// breakdowns for repeated calls on identical inputs (spec §8, invariant 4).
func Score(assignment Assignment, creator Creator, semanticScore float64, w Weights) Match {
	if math.IsNaN(semanticScore) || math.IsInf(semanticScore, 0) {
		semanticScore = 0
	}

	semanticSimilarity := clamp01((semanticScore + 1) / 2)

	allNiches := union(creator.Analysis.PrimaryNiches, creator.Analysis.SecondaryNiches)
	nicheAlignment := 0
	if len(assignment.CreatorNiches) > 0 {
		nicheAlignment = intersectionCount(assignment.CreatorNiches, allNiches)
	}

	audienceMatch := 0
	if assignment.TargetAudience.Locale != "" &&
		strings.EqualFold(assignment.TargetAudience.Locale, creator.Region) {
		audienceMatch = 1
	}

	valueAlignment := 0.0
	if len(assignment.CreatorValues) > 0 {
		matched := intersectionCount(assignment.CreatorValues, creator.Analysis.ApparentValues)
		valueAlignment = float64(matched) / float64(len(tagSet(assignment.CreatorValues)))
	}

	denom := len(assignment.CreatorNiches)
	if denom < 1 {
		denom = 1
	}
	nicheMatchRatio := float64(nicheAlignment) / float64(denom)
	nicheBoost := math.Sqrt(nicheMatchRatio)

	base := w.Semantic*semanticSimilarity +
		w.Niche*nicheMatchRatio +
		w.Audience*float64(audienceMatch) +
		w.Value*valueAlignment
	matchScore := clamp01(math.Min(1.0, base*(1+nicheBoost)))

	breakdown := ScoreBreakdown{
		SemanticSimilarity: round4(semanticSimilarity),
		NicheAlignment:     nicheAlignment,
		AudienceMatch:      audienceMatch,
		ValueAlignment:     round4(valueAlignment),
		NicheBoost:         round4(nicheBoost),
	}

	return Match{
		Creator:        creator,
		MatchScore:     round4(matchScore),
		ScoreBreakdown: breakdown,
	}
}

// ScoreMultiFactor is the alternative audience-scoring variant named in spec
// §9: locale equality plus demographic keyword overlap, rather than a strict
// locale-only binary. It is offered alongside Score but is never called by
// the orchestrator, which uses the required binary-locale contract.
func ScoreMultiFactor(assignment Assignment, creator Creator, semanticScore float64, w Weights) Match {
	m := Score(assignment, creator, semanticScore, w)

	localeHit := assignment.TargetAudience.Locale != "" &&
		strings.EqualFold(assignment.TargetAudience.Locale, creator.Region)
	demoHit := assignment.TargetAudience.Demographic != "" &&
		intersectionCount(strings.Fields(assignment.TargetAudience.Demographic), creator.Analysis.AudienceInterests) > 0

	audience := 0.0
	switch {
	case localeHit && demoHit:
		audience = 1.0
	case localeHit || demoHit:
		audience = 0.5
	}

	base := w.Semantic*m.ScoreBreakdown.SemanticSimilarity +
		w.Niche*nicheMatchRatioFromBreakdown(assignment, m.ScoreBreakdown) +
		w.Audience*audience +
		w.Value*m.ScoreBreakdown.ValueAlignment
	matchScore := clamp01(math.Min(1.0, base*(1+m.ScoreBreakdown.NicheBoost)))

	m.ScoreBreakdown.AudienceMatch = int(audience) // 0 or 1; 0.5 reports as 0
	m.MatchScore = round4(matchScore)
	return m
}

func nicheMatchRatioFromBreakdown(assignment Assignment, b ScoreBreakdown) float64 {
	denom := len(assignment.CreatorNiches)
	if denom < 1 {
		denom = 1
	}
	return float64(b.NicheAlignment) / float64(denom)
}
