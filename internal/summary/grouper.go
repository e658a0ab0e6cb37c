package summary

import (
	"fmt"
	"math"

	"power-band-lab/internal/domain"
)

// Band edges and labels. The first band absorbs everything at or below its
// upper edge (including negatives); values above the last edge fall to the
// missing sentinel because the declared edges cap at 100.
var (
	bandUpperEdges = []float64{60, 70, 80, 90, 100}
	bandLabels     = []string{"<60", "60-70", "70-80", "80-90", ">90"}
)

// Grouper maps a power value to a group key under one fixed mode.
type Grouper struct {
	mode domain.GroupingMode
}

// NewGrouper creates a grouper for the given mode.
func NewGrouper(mode domain.GroupingMode) (*Grouper, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown grouping mode %q", ErrInvalidConfig, mode)
	}
	return &Grouper{mode: mode}, nil
}

// Mode returns the configured grouping mode.
func (g *Grouper) Mode() domain.GroupingMode {
	return g.mode
}

// Group maps a power value to its group key. A nil or NaN power always
// yields the missing sentinel, so every event receives a defined key.
func (g *Grouper) Group(power *float64) domain.GroupKey {
	if power == nil || math.IsNaN(*power) {
		return domain.MissingGroup()
	}

	switch g.mode {
	case domain.GroupingBand:
		return bandGroup(*power)
	case domain.GroupingPerInteger:
		return integerGroup(*power)
	default:
		return intervalGroup(*power)
	}
}

// bandGroup assigns fixed left-inclusive bands: 70 lands in "70-80". The
// lowest band also takes zero and negatives.
func bandGroup(power float64) domain.GroupKey {
	if power > bandUpperEdges[len(bandUpperEdges)-1] {
		return domain.MissingGroup()
	}
	for i, upper := range bandUpperEdges {
		if power < upper {
			return domain.GroupKey{Label: bandLabels[i], Rank: float64(i)}
		}
	}
	// power == 100 exactly
	last := len(bandLabels) - 1
	return domain.GroupKey{Label: bandLabels[last], Rank: float64(last)}
}

// integerGroup rounds to the nearest integer, half to even.
func integerGroup(power float64) domain.GroupKey {
	n := int64(math.RoundToEven(power))
	return domain.GroupKey{Label: fmt.Sprintf("%d", n), Rank: float64(n)}
}

// intervalGroup floors to the half-open interval [n, n+1).
func intervalGroup(power float64) domain.GroupKey {
	n := int64(math.Floor(power))
	return domain.GroupKey{Label: fmt.Sprintf("%d-%d", n, n+1), Rank: float64(n)}
}
