// Package verification checks computed summaries against the arithmetic
// invariants every correct run must satisfy. Violations are reported as
// strings and surfaced in the report's data-quality section.
package verification

import (
	"fmt"
	"math"

	"power-band-lab/internal/domain"
)

// FloatTolerance is the tolerance for float64 comparisons.
const FloatTolerance = 1e-7

// VerifySummary checks every group of the summary and returns a list of
// violated invariants. An empty slice means the summary is consistent.
func VerifySummary(sum *domain.Summary) []string {
	var violations []string

	seen := make(map[string]bool, len(sum.Groups))
	for i, g := range sum.Groups {
		label := g.Group.Label

		if seen[label] {
			violations = append(violations, fmt.Sprintf("group %q appears more than once", label))
		}
		seen[label] = true

		if g.OpenTrades+g.ClosedTrades != g.TotalTrades {
			violations = append(violations, fmt.Sprintf(
				"group %q: open (%d) + closed (%d) != total (%d)",
				label, g.OpenTrades, g.ClosedTrades, g.TotalTrades))
		}

		if g.TPCount+g.SLCount > g.ClosedTrades {
			violations = append(violations, fmt.Sprintf(
				"group %q: tp (%d) + sl (%d) exceeds closed (%d)",
				label, g.TPCount, g.SLCount, g.ClosedTrades))
		}

		if g.TPRatePct != nil {
			if g.TPCount+g.SLCount == 0 {
				violations = append(violations, fmt.Sprintf(
					"group %q: tp_rate_pct present with no TP or SL exits", label))
			} else if *g.TPRatePct < -FloatTolerance || *g.TPRatePct > 100+FloatTolerance {
				violations = append(violations, fmt.Sprintf(
					"group %q: tp_rate_pct %.4f outside [0, 100]", label, *g.TPRatePct))
			}
		}

		violations = append(violations, verifyDurations(label, &g)...)

		// Emission order follows the group key ascending.
		if i > 0 && !sum.Groups[i-1].Group.Less(g.Group) {
			violations = append(violations, fmt.Sprintf(
				"group %q is out of order after %q", label, sum.Groups[i-1].Group.Label))
		}
	}

	if sum.NoData && len(sum.Groups) > 0 {
		violations = append(violations, "no-data flag set but groups are present")
	}
	if !sum.NoData && len(sum.Groups) == 0 {
		violations = append(violations, "no groups present but no-data flag is unset")
	}

	return violations
}

// verifyDurations checks that duration statistics are non-negative and
// internally ordered (min <= median <= max, avg within [min, max]).
func verifyDurations(label string, g *domain.GroupSummary) []string {
	var violations []string

	for _, stat := range []struct {
		name string
		val  *float64
	}{
		{"avg_duration_sec", g.AvgDurationSec},
		{"median_duration_sec", g.MedianDurationSec},
		{"min_duration_sec", g.MinDurationSec},
		{"max_duration_sec", g.MaxDurationSec},
		{"avg_duration_min", g.AvgDurationMin},
	} {
		if stat.val != nil && *stat.val < -FloatTolerance {
			violations = append(violations, fmt.Sprintf(
				"group %q: %s is negative (%.4f)", label, stat.name, *stat.val))
		}
	}

	if g.MinDurationSec != nil && g.MaxDurationSec != nil && *g.MinDurationSec > *g.MaxDurationSec+FloatTolerance {
		violations = append(violations, fmt.Sprintf(
			"group %q: min duration %.4f exceeds max %.4f", label, *g.MinDurationSec, *g.MaxDurationSec))
	}

	if g.AvgDurationSec != nil {
		if g.MinDurationSec != nil && *g.AvgDurationSec < *g.MinDurationSec-FloatTolerance {
			violations = append(violations, fmt.Sprintf(
				"group %q: avg duration %.4f below min %.4f", label, *g.AvgDurationSec, *g.MinDurationSec))
		}
		if g.MaxDurationSec != nil && *g.AvgDurationSec > *g.MaxDurationSec+FloatTolerance {
			violations = append(violations, fmt.Sprintf(
				"group %q: avg duration %.4f above max %.4f", label, *g.AvgDurationSec, *g.MaxDurationSec))
		}
		if g.AvgDurationMin != nil && !floatEquals(*g.AvgDurationMin, *g.AvgDurationSec/60) {
			violations = append(violations, fmt.Sprintf(
				"group %q: avg_duration_min %.6f does not equal avg_duration_sec/60", label, *g.AvgDurationMin))
		}
	}

	return violations
}

// floatEquals compares two float64 values within FloatTolerance.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}
