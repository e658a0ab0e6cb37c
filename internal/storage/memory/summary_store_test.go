package memory

import (
	"context"
	"errors"
	"math"
	"testing"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/storage"
)

func newSummary(mode domain.GroupingMode, label string, rank float64) *domain.GroupSummary {
	return &domain.GroupSummary{
		Mode:         mode,
		Group:        domain.GroupKey{Label: label, Rank: rank},
		TotalTrades:  3,
		ClosedTrades: 2,
		OpenTrades:   1,
	}
}

func TestSummaryStore_InsertAndGetByKey(t *testing.T) {
	ctx := context.Background()
	store := NewSummaryStore()

	if err := store.Insert(ctx, newSummary(domain.GroupingBand, "60-70", 60)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByKey(ctx, domain.GroupingBand, "60-70")
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if got.TotalTrades != 3 {
		t.Errorf("Expected 3 total trades, got %d", got.TotalTrades)
	}
}

func TestSummaryStore_DuplicateKeyIsModeScoped(t *testing.T) {
	ctx := context.Background()
	store := NewSummaryStore()

	if err := store.Insert(ctx, newSummary(domain.GroupingBand, "60-70", 60)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Same label under a different mode is a distinct key.
	if err := store.Insert(ctx, newSummary(domain.GroupingIntegerInterval, "60-70", 60)); err != nil {
		t.Fatalf("Insert under different mode failed: %v", err)
	}

	err := store.Insert(ctx, newSummary(domain.GroupingBand, "60-70", 60))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestSummaryStore_InsertInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewSummaryStore()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, newSummary("weekly", "60-70", 60)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for bad mode, got %v", err)
	}
	if err := store.Insert(ctx, newSummary(domain.GroupingBand, "", 60)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty label, got %v", err)
	}
}

func TestSummaryStore_GetByMode_OrderedWithMissingLast(t *testing.T) {
	ctx := context.Background()
	store := NewSummaryStore()

	na := newSummary(domain.GroupingBand, domain.MissingGroupLabel, math.Inf(1))
	na.Group.Missing = true

	rows := []*domain.GroupSummary{
		newSummary(domain.GroupingBand, ">90", 90),
		na,
		newSummary(domain.GroupingBand, "<60", 0),
		newSummary(domain.GroupingPerInteger, "72", 72),
	}
	if err := store.InsertBulk(ctx, rows); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByMode(ctx, domain.GroupingBand)
	if err != nil {
		t.Fatalf("GetByMode failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(got))
	}

	wantOrder := []string{"<60", ">90", domain.MissingGroupLabel}
	for i, want := range wantOrder {
		if got[i].Group.Label != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, got[i].Group.Label)
		}
	}
}

func TestSummaryStore_InsertBulk_Atomic(t *testing.T) {
	ctx := context.Background()
	store := NewSummaryStore()

	if err := store.Insert(ctx, newSummary(domain.GroupingBand, "60-70", 60)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.GroupSummary{
		newSummary(domain.GroupingBand, "70-80", 70),
		newSummary(domain.GroupingBand, "60-70", 60), // duplicate
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	if _, err := store.GetByKey(ctx, domain.GroupingBand, "70-80"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Failed batch leaked row 70-80")
	}
}

func TestSummaryStore_GetByKey_NotFound(t *testing.T) {
	store := NewSummaryStore()

	_, err := store.GetByKey(context.Background(), domain.GroupingBand, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
