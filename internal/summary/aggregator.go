package summary

import (
	"context"
	"errors"
	"sort"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/storage"
)

// ErrInvalidConfig is returned when the summarizer configuration is unusable.
var ErrInvalidConfig = errors.New("invalid summarizer configuration")

// Config parametrizes one summarization run. The grouping mode is fixed for
// the whole run; the original per-script variants collapse into this.
type Config struct {
	Mode domain.GroupingMode

	// MinBound/MaxBound restrict the emitted integer range in
	// integer_interval mode. Nil means inferred from the data, i.e. no
	// restriction beyond what the events produce.
	MinBound *int
	MaxBound *int
}

// Summarizer computes per-group summaries from stored events.
type Summarizer struct {
	eventStore storage.EventStore
	grouper    *Grouper
	cfg        Config
}

// NewSummarizer creates a summarizer over an event store.
func NewSummarizer(eventStore storage.EventStore, cfg Config) (*Summarizer, error) {
	grouper, err := NewGrouper(cfg.Mode)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		eventStore: eventStore,
		grouper:    grouper,
		cfg:        cfg,
	}, nil
}

// Summarize loads all events and aggregates them into a summary table.
// An empty store yields an empty table with the no-data flag set; it is
// not an error.
func (s *Summarizer) Summarize(ctx context.Context) (*domain.Summary, error) {
	events, err := s.eventStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return SummarizeEvents(events, s.cfg)
}

// SummarizeAndStore computes the summary and persists its rows.
// Returns storage.ErrDuplicateKey if any row already exists (append-only).
func (s *Summarizer) SummarizeAndStore(ctx context.Context, store storage.SummaryStore) (*domain.Summary, error) {
	sum, err := s.Summarize(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.GroupSummary, len(sum.Groups))
	for i := range sum.Groups {
		rows[i] = &sum.Groups[i]
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		return nil, err
	}

	return sum, nil
}

// groupAccum accumulates raw per-group tallies before statistics.
type groupAccum struct {
	key       domain.GroupKey
	total     int
	closed    int
	tp        int
	sl        int
	gains     []float64 // closed events with gain_pct present
	durations []float64 // closed events with a resolved duration
}

// SummarizeEvents aggregates a slice of events under the given config.
// Pure and deterministic: the same input always yields an identical table.
func SummarizeEvents(events []*domain.Event, cfg Config) (*domain.Summary, error) {
	grouper, err := NewGrouper(cfg.Mode)
	if err != nil {
		return nil, err
	}

	sum := &domain.Summary{
		Mode:           cfg.Mode,
		MissingColumns: missingColumns(events),
	}
	if len(events) == 0 {
		sum.NoData = true
		return sum, nil
	}

	accums := make(map[string]*groupAccum)
	for _, e := range events {
		key := grouper.Group(e.Power)
		acc, ok := accums[key.Label]
		if !ok {
			acc = &groupAccum{key: key}
			accums[key.Label] = acc
		}

		acc.total++
		if !IsClosed(e) {
			continue
		}
		acc.closed++

		if isExitReason(e, domain.ExitReasonTakeProfit) {
			acc.tp++
		} else if isExitReason(e, domain.ExitReasonStopLoss) {
			acc.sl++
		}
		if e.GainPct != nil {
			acc.gains = append(acc.gains, *e.GainPct)
		}
		if dur := ResolveDuration(e); dur != nil {
			acc.durations = append(acc.durations, *dur)
		}
	}

	for _, acc := range accums {
		if excludedByBounds(acc.key, cfg) {
			continue
		}
		sum.Groups = append(sum.Groups, finalizeGroup(acc, cfg.Mode))
	}

	// Sort by group key ascending, missing sentinel last
	sort.Slice(sum.Groups, func(i, j int) bool {
		return sum.Groups[i].Group.Less(sum.Groups[j].Group)
	})

	if len(sum.Groups) == 0 {
		sum.NoData = true
	}
	return sum, nil
}

// finalizeGroup turns raw tallies into a summary row.
func finalizeGroup(acc *groupAccum, mode domain.GroupingMode) domain.GroupSummary {
	row := domain.GroupSummary{
		Mode:         mode,
		Group:        acc.key,
		TotalTrades:  acc.total,
		ClosedTrades: acc.closed,
		OpenTrades:   acc.total - acc.closed,
		TPCount:      acc.tp,
		SLCount:      acc.sl,

		AvgGainPct:        computeMean(acc.gains),
		AvgDurationSec:    computeMean(acc.durations),
		MedianDurationSec: computeMedian(acc.durations),
		MinDurationSec:    computeMin(acc.durations),
		MaxDurationSec:    computeMax(acc.durations),
	}

	// tp_rate is undefined without evidence: nil, never a zero-guard epsilon
	if denom := acc.tp + acc.sl; denom > 0 {
		rate := 100 * float64(acc.tp) / float64(denom)
		row.TPRatePct = &rate
	}

	if row.AvgDurationSec != nil {
		m := *row.AvgDurationSec / 60
		row.AvgDurationMin = &m
	}

	return row
}

// excludedByBounds drops integer-interval groups outside the configured
// range. The missing sentinel is not an integer and is never bounded out.
func excludedByBounds(key domain.GroupKey, cfg Config) bool {
	if cfg.Mode != domain.GroupingIntegerInterval || key.Missing {
		return false
	}
	if cfg.MinBound != nil && key.Rank < float64(*cfg.MinBound) {
		return true
	}
	if cfg.MaxBound != nil && key.Rank > float64(*cfg.MaxBound) {
		return true
	}
	return false
}

// expected source columns, in report order
var expectedColumns = []string{"power", "exit_reason", "gain_pct", "duration", "status"}

// missingColumns lists expected fields absent from every record. Each one
// degrades its derived output to missing instead of aborting the run.
func missingColumns(events []*domain.Event) []string {
	if len(events) == 0 {
		return nil
	}

	present := make(map[string]bool, len(expectedColumns))
	for _, e := range events {
		if e.Power != nil {
			present["power"] = true
		}
		if e.ExitReason != nil {
			present["exit_reason"] = true
		}
		if e.GainPct != nil {
			present["gain_pct"] = true
		}
		if e.DurationSec != nil || e.OpenTime != nil || e.OpenTS != nil {
			present["duration"] = true
		}
		if e.Status != nil {
			present["status"] = true
		}
	}

	var missing []string
	for _, col := range expectedColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
