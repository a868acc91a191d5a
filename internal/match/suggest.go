package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum normalized similarity for a suggestion.
const DefaultThreshold = 0.6

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates whose normalized similarity to name
// is at least DefaultThreshold, best first. Ties keep candidate order.
func Suggest(name string, candidates []string, limit int) []string {
	norm := NormalizeIdent(name)

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if s := Similarity(norm, NormalizeIdent(c)); s >= DefaultThreshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}
