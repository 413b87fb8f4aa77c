// Package scoring implements the pure scoring and ranking pipeline: a
// (assignment, creator, semanticScore) to Match function plus a stable total
// order over the resulting Matches. No I/O, no clocks, no randomness.
package scoring

// TargetAudience is the optional audience-targeting portion of an Assignment.
type TargetAudience struct {
	Locale      string `json:"locale,omitempty"`
	Demographic string `json:"demographic,omitempty"`
}

// Assignment is the content brief fed to the matcher.
type Assignment struct {
	Topic             string         `json:"topic"`
	KeyTakeaway       string         `json:"keyTakeaway"`
	AdditionalContext string         `json:"additionalContext"`
	TargetAudience    TargetAudience `json:"targetAudience"`
	CreatorNiches     []string       `json:"creatorNiches,omitempty"`
	CreatorValues     []string       `json:"creatorValues,omitempty"`
	ToneStyle         string         `json:"toneStyle,omitempty"`
}

// EngagementStyle captures a creator's apparent tone tags.
type EngagementStyle struct {
	Tone []string `json:"tone,omitempty"`
}

// Analysis is the derived-attribute portion of a Creator catalog entry.
type Analysis struct {
	PrimaryNiches     []string        `json:"primaryNiches"`
	SecondaryNiches   []string        `json:"secondaryNiches,omitempty"`
	ApparentValues    []string        `json:"apparentValues,omitempty"`
	AudienceInterests []string        `json:"audienceInterests,omitempty"`
	EngagementStyle   EngagementStyle `json:"engagementStyle"`
	Summary           string          `json:"summary,omitempty"`
}

// Creator is a catalog entry.
type Creator struct {
	ID            string   `json:"id"`
	Nickname      string   `json:"nickname"`
	Bio           string   `json:"bio"`
	FollowerCount int64    `json:"followerCount"`
	HeartCount    int64    `json:"heartCount"`
	Region        string   `json:"region"`
	Analysis      Analysis `json:"analysis"`
}

// ScoreBreakdown is the per-component explanation attached to every Match.
type ScoreBreakdown struct {
	SemanticSimilarity float64 `json:"semanticSimilarity"`
	NicheAlignment     int     `json:"nicheAlignment"`
	AudienceMatch      int     `json:"audienceMatch"`
	ValueAlignment     float64 `json:"valueAlignment"`
	NicheBoost         float64 `json:"nicheBoost"`
}

// Match is a scored candidate, immutable once produced.
type Match struct {
	Creator        Creator        `json:"creator"`
	MatchScore     float64        `json:"matchScore"`
	ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown"`
	Reasoning      string         `json:"reasoning,omitempty"`
}
