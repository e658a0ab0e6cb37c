package domain

import "math"

// GroupingMode selects how a power value maps to a group key.
type GroupingMode string

// Grouping modes. Fixed per run; the pipeline never mixes modes.
const (
	GroupingBand            GroupingMode = "band"
	GroupingPerInteger      GroupingMode = "per_integer"
	GroupingIntegerInterval GroupingMode = "integer_interval"
)

// Valid reports whether the mode is one of the recognized grouping modes.
func (m GroupingMode) Valid() bool {
	switch m {
	case GroupingBand, GroupingPerInteger, GroupingIntegerInterval:
		return true
	}
	return false
}

// MissingGroupLabel is the sentinel label for events whose power is absent,
// non-numeric, or outside the declared band edges.
const MissingGroupLabel = "NA"

// GroupKey identifies one power group. Rank gives the natural ordering of
// groups within a mode (band index, integer value, or interval floor); the
// missing sentinel always sorts last.
type GroupKey struct {
	Label   string
	Rank    float64
	Missing bool
}

// MissingGroup returns the sentinel key for unresolvable power values.
func MissingGroup() GroupKey {
	return GroupKey{Label: MissingGroupLabel, Rank: math.Inf(1), Missing: true}
}

// Less orders keys by rank, breaking ties by label for determinism.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Rank != other.Rank {
		return k.Rank < other.Rank
	}
	return k.Label < other.Label
}
