package summary

import (
	"sort"

	"power-band-lab/internal/domain"
)

// Ranking helpers over finalized summary rows. Groups without a single
// closed trade carry no duration evidence and are excluded from every
// ranking; ties break by group key ascending for deterministic output.

// RankByAvgDuration returns groups ordered by average closed duration
// ascending (fastest first). n <= 0 means all qualifying groups.
func RankByAvgDuration(groups []domain.GroupSummary, n int) []domain.GroupSummary {
	var ranked []domain.GroupSummary
	for _, g := range groups {
		if g.ClosedTrades == 0 || g.AvgDurationSec == nil {
			continue
		}
		ranked = append(ranked, g)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if *ranked[i].AvgDurationSec != *ranked[j].AvgDurationSec {
			return *ranked[i].AvgDurationSec < *ranked[j].AvgDurationSec
		}
		return ranked[i].Group.Less(ranked[j].Group)
	})

	return truncate(ranked, n)
}

// RankByClosedCount returns groups ordered by closed-trade count
// descending. n <= 0 means all qualifying groups.
func RankByClosedCount(groups []domain.GroupSummary, n int) []domain.GroupSummary {
	var ranked []domain.GroupSummary
	for _, g := range groups {
		if g.ClosedTrades == 0 {
			continue
		}
		ranked = append(ranked, g)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ClosedTrades != ranked[j].ClosedTrades {
			return ranked[i].ClosedTrades > ranked[j].ClosedTrades
		}
		return ranked[i].Group.Less(ranked[j].Group)
	})

	return truncate(ranked, n)
}

// FastestGroup returns the single fastest-closing group, or nil when no
// group has closed trades.
func FastestGroup(groups []domain.GroupSummary) *domain.GroupSummary {
	ranked := RankByAvgDuration(groups, 1)
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

func truncate(groups []domain.GroupSummary, n int) []domain.GroupSummary {
	if n > 0 && len(groups) > n {
		return groups[:n]
	}
	return groups
}
