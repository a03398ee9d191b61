package analyze

import "maps"

// MatchedMod is a valuable mod found on a socket's nodes
type MatchedMod struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// Scorer weighs matched mods
type Scorer struct {
	weights map[string]float64
}

// NewScorer returns a scorer over a copy of weights
func NewScorer(weights map[string]float64) *Scorer {
	return &Scorer{weights: maps.Clone(weights)}
}

// Score sums weight * count over the matched mods
func (s *Scorer) Score(matched []MatchedMod) float64 {
	var score float64
	for _, m := range matched {
		score += m.Weight * float64(m.Count)
	}
	return score
}

// Weight returns the weight of a mod text
func (s *Scorer) Weight(text string) (float64, bool) {
	w, ok := s.weights[text]
	return w, ok
}

// IsValuable reports whether a mod text has a weight
func (s *Scorer) IsValuable(text string) bool {
	_, ok := s.weights[text]
	return ok
}
