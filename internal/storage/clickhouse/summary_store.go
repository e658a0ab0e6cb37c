package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/observability"
	"power-band-lab/internal/storage"
)

// SummaryStore implements storage.SummaryStore using ClickHouse.
type SummaryStore struct {
	conn *Conn
}

// NewSummaryStore creates a new SummaryStore.
func NewSummaryStore(conn *Conn) *SummaryStore {
	return &SummaryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SummaryStore = (*SummaryStore)(nil)

const summaryColumns = `
	grouping_mode, group_label, group_rank, group_missing,
	total_trades, closed_trades, open_trades, tp_count, sl_count,
	tp_rate_pct, avg_gain_pct,
	avg_duration_sec, median_duration_sec, min_duration_sec, max_duration_sec,
	avg_duration_min
`

// track records duration and error metrics for one store operation.
func track(op string, start time.Time, err *error) {
	observability.RecordDBQuery("clickhouse", op, time.Since(start).Seconds(), *err)
}

// Insert adds a new group summary. Returns ErrDuplicateKey if the
// (grouping_mode, group_label) key exists.
func (s *SummaryStore) Insert(ctx context.Context, g *domain.GroupSummary) (err error) {
	defer track("insert", time.Now(), &err)

	// MergeTree does not enforce uniqueness, so check before insert.
	exists, err := s.exists(ctx, g.Mode, g.Group.Label)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `INSERT INTO group_summaries (` + summaryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = s.conn.Exec(ctx, query, summaryArgs(g)...)
	if err != nil {
		return fmt.Errorf("insert group summary: %w", err)
	}
	return nil
}

// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
func (s *SummaryStore) InsertBulk(ctx context.Context, groups []*domain.GroupSummary) (err error) {
	if len(groups) == 0 {
		return nil
	}
	defer track("insert_bulk", time.Now(), &err)

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, g := range groups {
		key := string(g.Mode) + "|" + g.Group.Label
		if _, dup := seen[key]; dup {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, g := range groups {
		exists, err := s.exists(ctx, g.Mode, g.Group.Label)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO group_summaries (`+summaryColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, g := range groups {
		if err := batch.Append(summaryArgs(g)...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByKey retrieves a summary by its composite key. Returns ErrNotFound if
// not exists.
func (s *SummaryStore) GetByKey(ctx context.Context, mode domain.GroupingMode, label string) (row *domain.GroupSummary, err error) {
	defer track("get_by_key", time.Now(), &err)

	query := `
		SELECT ` + summaryColumns + `
		FROM group_summaries FINAL
		WHERE grouping_mode = ? AND group_label = ?
		LIMIT 1
	`

	g, err := scanSummary(s.conn.QueryRow(ctx, query, string(mode), label))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get summary by key: %w", err)
	}
	return g, nil
}

// GetByMode retrieves all summaries for a grouping mode, ordered by group
// rank ascending with the missing sentinel last.
func (s *SummaryStore) GetByMode(ctx context.Context, mode domain.GroupingMode) (rows []*domain.GroupSummary, err error) {
	defer track("get_by_mode", time.Now(), &err)

	query := `
		SELECT ` + summaryColumns + `
		FROM group_summaries FINAL
		WHERE grouping_mode = ?
		ORDER BY group_rank ASC, group_label ASC
	`

	res, err := s.conn.Query(ctx, query, string(mode))
	if err != nil {
		return nil, fmt.Errorf("query by mode: %w", err)
	}
	defer res.Close()

	return scanSummaries(res)
}

// GetAll retrieves all summaries.
func (s *SummaryStore) GetAll(ctx context.Context) (rows []*domain.GroupSummary, err error) {
	defer track("get_all", time.Now(), &err)

	query := `
		SELECT ` + summaryColumns + `
		FROM group_summaries FINAL
		ORDER BY grouping_mode ASC, group_rank ASC, group_label ASC
	`

	res, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer res.Close()

	return scanSummaries(res)
}

// exists checks if a summary with the given key exists.
func (s *SummaryStore) exists(ctx context.Context, mode domain.GroupingMode, label string) (bool, error) {
	query := `
		SELECT count(*) FROM group_summaries FINAL
		WHERE grouping_mode = ? AND group_label = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, string(mode), label).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// summaryArgs lists insert arguments in column order. Nil statistic
// pointers become NULLs.
func summaryArgs(g *domain.GroupSummary) []any {
	return []any{
		string(g.Mode),
		g.Group.Label,
		g.Group.Rank,
		g.Group.Missing,
		int64(g.TotalTrades),
		int64(g.ClosedTrades),
		int64(g.OpenTrades),
		int64(g.TPCount),
		int64(g.SLCount),
		g.TPRatePct,
		g.AvgGainPct,
		g.AvgDurationSec,
		g.MedianDurationSec,
		g.MinDurationSec,
		g.MaxDurationSec,
		g.AvgDurationMin,
	}
}

// Row interface for scanning single and multiple rows alike.
type chRow interface {
	Scan(dest ...interface{}) error
}

// scanSummary scans one row into a GroupSummary.
func scanSummary(row chRow) (*domain.GroupSummary, error) {
	var g domain.GroupSummary
	var mode string
	var total, closed, open, tp, sl int64

	err := row.Scan(
		&mode,
		&g.Group.Label,
		&g.Group.Rank,
		&g.Group.Missing,
		&total, &closed, &open, &tp, &sl,
		&g.TPRatePct,
		&g.AvgGainPct,
		&g.AvgDurationSec,
		&g.MedianDurationSec,
		&g.MinDurationSec,
		&g.MaxDurationSec,
		&g.AvgDurationMin,
	)
	if err != nil {
		return nil, err
	}

	g.Mode = domain.GroupingMode(mode)
	g.TotalTrades = int(total)
	g.ClosedTrades = int(closed)
	g.OpenTrades = int(open)
	g.TPCount = int(tp)
	g.SLCount = int(sl)
	return &g, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanSummaries scans multiple rows into a slice.
func scanSummaries(rows chRows) ([]*domain.GroupSummary, error) {
	var summaries []*domain.GroupSummary

	for rows.Next() {
		g, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summaries = append(summaries, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary rows: %w", err)
	}

	return summaries, nil
}
