package reporting

import (
	"time"

	"power-band-lab/internal/domain"
)

// Report is the rendered output structure for one summarizer run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Mode        domain.GroupingMode

	// Totals across all groups
	TotalEvents  int
	ClosedEvents int
	NoData       bool

	// Per-group table, sorted by group key ascending
	Groups []domain.GroupSummary

	// Fastest-closing group (nil when no group has closed trades)
	Fastest *domain.GroupSummary

	// Rankings, both restricted to groups with at least one closed trade
	DurationRanking []domain.GroupSummary // by avg duration ascending
	TopClosed       []domain.GroupSummary // by closed count descending

	DataQuality DataQualitySection
}

// DataQualitySection lists degraded inputs and invariant violations.
type DataQualitySection struct {
	// MissingColumns are source fields absent from every record; their
	// derived outputs are reported as unavailable.
	MissingColumns []string

	// IntegrityErrors are violated summary invariants. Expected empty.
	IntegrityErrors []string
}

// Clean reports whether no data-quality issue was observed.
func (d DataQualitySection) Clean() bool {
	return len(d.MissingColumns) == 0 && len(d.IntegrityErrors) == 0
}
