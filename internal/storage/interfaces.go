package storage

import (
	"context"

	"power-band-lab/internal/domain"
)

// EventStore provides access to raw trading event storage.
type EventStore interface {
	// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
	Insert(ctx context.Context, e *domain.Event) error

	// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, events []*domain.Event) error

	// GetByID retrieves an event by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, eventID string) (*domain.Event, error)

	// GetBySymbol retrieves all events for a symbol, ordered by event_id ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.Event, error)

	// GetAll retrieves all events, ordered by event_id ASC.
	GetAll(ctx context.Context) ([]*domain.Event, error)
}

// SummaryStore provides access to per-group summary storage.
type SummaryStore interface {
	// Insert adds a new group summary. Returns ErrDuplicateKey if
	// (grouping_mode, group_label) exists.
	Insert(ctx context.Context, g *domain.GroupSummary) error

	// InsertBulk adds multiple summaries atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, groups []*domain.GroupSummary) error

	// GetByKey retrieves a summary by its composite key. Returns ErrNotFound if not exists.
	GetByKey(ctx context.Context, mode domain.GroupingMode, label string) (*domain.GroupSummary, error)

	// GetByMode retrieves all summaries for a grouping mode, ordered by group rank ASC.
	GetByMode(ctx context.Context, mode domain.GroupingMode) ([]*domain.GroupSummary, error)

	// GetAll retrieves all summaries.
	GetAll(ctx context.Context) ([]*domain.GroupSummary, error)
}
