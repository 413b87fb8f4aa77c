package scoring

// Weights is the composite-score weight profile (spec §4.1). The four
// weights must sum to 1.0.
type Weights struct {
	Semantic float64
	Niche    float64
	Audience float64
	Value    float64
}

// DefaultWeights is the spec-fixed profile: 0.7/0.2/0.05/0.05.
func DefaultWeights() Weights {
	return Weights{Semantic: 0.7, Niche: 0.2, Audience: 0.05, Value: 0.05}
}

// AltWeights is the alternative profile named in spec §9's open question,
// selectable via WEIGHT_PROFILE=alt.
func AltWeights() Weights {
	return Weights{Semantic: 0.6, Niche: 0.2, Audience: 0.1, Value: 0.1}
}
