package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/observability"
	"power-band-lab/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

const eventColumns = `
	event_id, symbol, dir, power, exit_reason, gain_pct, status,
	duration_sec, open_time, close_time, open_ts, close_ts, open_after_ts
`

const insertEventQuery = `
	INSERT INTO trade_events (
		event_id, symbol, dir, power, exit_reason, gain_pct, status,
		duration_sec, open_time, close_time, open_ts, close_ts, open_after_ts
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// track records duration and error metrics for one store operation.
func track(op string, start time.Time, err *error) {
	observability.RecordDBQuery("postgres", op, time.Since(start).Seconds(), *err)
}

// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
func (s *EventStore) Insert(ctx context.Context, e *domain.Event) (err error) {
	defer track("insert", time.Now(), &err)

	_, err = s.pool.Exec(ctx, insertEventQuery, eventArgs(e)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// InsertBulk adds multiple events in one transaction. Any duplicate fails
// the entire batch.
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.Event) (err error) {
	if len(events) == 0 {
		return nil
	}
	defer track("insert_bulk", time.Now(), &err)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		if _, err := tx.Exec(ctx, insertEventQuery, eventArgs(e)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert event %s: %w", e.EventID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID. Returns ErrNotFound if not exists.
func (s *EventStore) GetByID(ctx context.Context, eventID string) (event *domain.Event, err error) {
	defer track("get_by_id", time.Now(), &err)

	query := `SELECT ` + eventColumns + ` FROM trade_events WHERE event_id = $1`

	row := s.pool.QueryRow(ctx, query, eventID)
	event, err = scanEvent(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return event, nil
}

// GetBySymbol retrieves all events for a symbol, ordered by event_id ASC.
func (s *EventStore) GetBySymbol(ctx context.Context, symbol string) (events []*domain.Event, err error) {
	defer track("get_by_symbol", time.Now(), &err)

	query := `SELECT ` + eventColumns + ` FROM trade_events WHERE symbol = $1 ORDER BY event_id ASC`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get events by symbol: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetAll retrieves all events, ordered by event_id ASC.
func (s *EventStore) GetAll(ctx context.Context) (events []*domain.Event, err error) {
	defer track("get_all", time.Now(), &err)

	query := `SELECT ` + eventColumns + ` FROM trade_events ORDER BY event_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// eventArgs lists insert arguments in column order. Nil pointers become
// SQL NULLs.
func eventArgs(e *domain.Event) []any {
	return []any{
		e.EventID,
		e.Symbol,
		e.Dir,
		e.Power,
		e.ExitReason,
		e.GainPct,
		e.Status,
		e.DurationSec,
		e.OpenTime,
		e.CloseTime,
		e.OpenTS,
		e.CloseTS,
		e.OpenAfterTS,
	}
}

// scanEvent scans a single row into an Event.
func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.EventID,
		&e.Symbol,
		&e.Dir,
		&e.Power,
		&e.ExitReason,
		&e.GainPct,
		&e.Status,
		&e.DurationSec,
		&e.OpenTime,
		&e.CloseTime,
		&e.OpenTS,
		&e.CloseTS,
		&e.OpenAfterTS,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// scanEvents scans multiple rows into a slice of Event.
func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	var events []*domain.Event

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
