package reporting

import (
	"time"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/summary"
)

// Generator produces reports from computed summaries.
type Generator struct {
	topN int
	now  func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator. topN caps the ranking sections;
// zero means unbounded.
func NewGenerator(topN int) *Generator {
	return &Generator{
		topN: topN,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the complete report from a summary. integrityErrors come
// from the invariant verifier and land in the data-quality section.
func (g *Generator) Generate(sum *domain.Summary, integrityErrors []string) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		Mode:        sum.Mode,
		NoData:      sum.NoData,
		Groups:      sum.Groups,
		DataQuality: DataQualitySection{
			MissingColumns:  sum.MissingColumns,
			IntegrityErrors: integrityErrors,
		},
	}

	for _, grp := range sum.Groups {
		r.TotalEvents += grp.TotalTrades
		r.ClosedEvents += grp.ClosedTrades
	}

	r.Fastest = summary.FastestGroup(sum.Groups)
	r.DurationRanking = summary.RankByAvgDuration(sum.Groups, g.topN)
	r.TopClosed = summary.RankByClosedCount(sum.Groups, g.topN)

	return r
}
