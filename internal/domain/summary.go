package domain

// GroupSummary is one aggregation row: every count and statistic for a
// single power group. Rate and duration statistics are nullable — a group
// with no qualifying closed events reports them as missing, never zero.
type GroupSummary struct {
	Mode  GroupingMode
	Group GroupKey

	// Counts
	TotalTrades  int
	ClosedTrades int
	OpenTrades   int // TotalTrades - ClosedTrades, never negative
	TPCount      int
	SLCount      int

	// Rates
	TPRatePct *float64 // 100 * tp / (tp+sl), nil when tp+sl == 0

	// Closed-trade statistics over non-missing values only
	AvgGainPct        *float64
	AvgDurationSec    *float64
	MedianDurationSec *float64
	MinDurationSec    *float64
	MaxDurationSec    *float64
	AvgDurationMin    *float64 // AvgDurationSec / 60
}

// Summary is the full aggregation result for one run.
type Summary struct {
	Mode   GroupingMode
	Groups []GroupSummary // sorted by group key ascending, missing last

	// MissingColumns lists source fields absent from every record; the
	// corresponding derived outputs degrade to missing instead of aborting.
	MissingColumns []string

	// NoData is the explicit no-data signal for an empty input collection.
	NoData bool
}

// GroupByLabel returns the summary row for a label, or nil if absent.
func (s *Summary) GroupByLabel(label string) *GroupSummary {
	for i := range s.Groups {
		if s.Groups[i].Group.Label == label {
			return &s.Groups[i]
		}
	}
	return nil
}
