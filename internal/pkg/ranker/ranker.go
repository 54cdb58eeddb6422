package ranker

import (
	"sort"

	"linkscout/internal/pkg/types"
)

// Rank orders opportunities descending by priority score. The sort is
// stable: equal-priority pages keep their original discovery order, so
// re-running on the same input is bit-for-bit reproducible. "Top N
// links" downstream means the first N records of this slice.
func Rank(opportunities []types.LinkOpportunity) []types.LinkOpportunity {
	ranked := make([]types.LinkOpportunity, len(opportunities))
	copy(ranked, opportunities)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})
	return ranked
}

// HighValue filters a ranked list down to the page types the editing
// stage treats as high-value link targets, preserving order.
func HighValue(ranked []types.LinkOpportunity) []types.LinkOpportunity {
	var filtered []types.LinkOpportunity
	for _, opp := range ranked {
		switch opp.PageType {
		case types.PageTypeHomepage, types.PageTypeService, types.PageTypeAbout, types.PageTypeContact:
			filtered = append(filtered, opp)
		}
	}
	return filtered
}
