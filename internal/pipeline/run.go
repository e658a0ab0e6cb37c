// Package pipeline orchestrates a full summarizer run: load events from a
// store, group and aggregate, verify invariants, and write report files.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/observability"
	"power-band-lab/internal/reporting"
	"power-band-lab/internal/storage"
	"power-band-lab/internal/summary"
	"power-band-lab/internal/verification"
)

// Output file names.
const (
	ReportFileName = "SUMMARY.md"
	CSVFileName    = "group_summary.csv"
)

// Pipeline orchestrates summary computation and report generation.
type Pipeline struct {
	eventStore   storage.EventStore
	summaryStore storage.SummaryStore // optional, persists computed rows
	cfg          summary.Config
	outputDir    string
	topN         int
	clock        func() time.Time
	logger       zerolog.Logger
}

// New creates a pipeline over the given event store.
func New(eventStore storage.EventStore, cfg summary.Config, outputDir string, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		eventStore: eventStore,
		cfg:        cfg,
		outputDir:  outputDir,
		topN:       10,
		clock:      func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// WithSummaryStore adds persistence of computed group rows.
func (p *Pipeline) WithSummaryStore(store storage.SummaryStore) *Pipeline {
	p.summaryStore = store
	return p
}

// WithTopN caps the ranking sections. Zero means unbounded.
func (p *Pipeline) WithTopN(n int) *Pipeline {
	p.topN = n
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Run executes the full pipeline and writes output files:
// - SUMMARY.md
// - group_summary.csv
// The generated report is returned for console rendering.
func (p *Pipeline) Run(ctx context.Context) (*reporting.Report, error) {
	start := p.clock()

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return nil, err
	}

	summarizer, err := summary.NewSummarizer(p.eventStore, p.cfg)
	if err != nil {
		return nil, err
	}

	sum, err := summarizer.Summarize(ctx)
	if err != nil {
		observability.RecordPipelineRun("error", p.clock().Sub(start).Seconds())
		return nil, err
	}

	p.logger.Info().
		Str("mode", string(sum.Mode)).
		Int("groups", len(sum.Groups)).
		Bool("no_data", sum.NoData).
		Msg("summary computed")

	integrityErrors := verification.VerifySummary(sum)
	for _, v := range integrityErrors {
		p.logger.Warn().Str("violation", v).Msg("summary integrity check failed")
	}

	if p.summaryStore != nil && len(sum.Groups) > 0 {
		rows := make([]*domain.GroupSummary, len(sum.Groups))
		for i := range sum.Groups {
			rows[i] = &sum.Groups[i]
		}
		if err := p.summaryStore.InsertBulk(ctx, rows); err != nil {
			observability.RecordPipelineRun("error", p.clock().Sub(start).Seconds())
			return nil, err
		}
		p.logger.Info().Int("rows", len(rows)).Msg("summary rows persisted")
	}

	report := reporting.NewGenerator(p.topN).WithClock(p.clock).Generate(sum, integrityErrors)

	reportMD := reporting.RenderMarkdown(report)
	reportPath := filepath.Join(p.outputDir, ReportFileName)
	if err := os.WriteFile(reportPath, []byte(reportMD), 0644); err != nil {
		return nil, err
	}

	csv := reporting.RenderGroupSummaryCSV(report.Groups)
	csvPath := filepath.Join(p.outputDir, CSVFileName)
	if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
		return nil, err
	}

	observability.DefaultMetrics.GroupsEmitted.Set(float64(len(report.Groups)))
	observability.DefaultMetrics.ReportsGenerated.Inc()
	observability.DefaultMetrics.LastSuccessfulRun.Set(float64(p.clock().Unix()))
	observability.RecordPipelineRun("success", p.clock().Sub(start).Seconds())

	p.logger.Info().
		Str("report", reportPath).
		Str("csv", csvPath).
		Msg("report written")

	return report, nil
}
