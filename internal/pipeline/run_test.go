package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/storage/memory"
	"power-band-lab/internal/summary"
)

func TestRun_WritesOutputFiles(t *testing.T) {
	ctx := context.Background()
	outputDir := t.TempDir()

	store := memory.NewEventStore()
	if err := LoadFixtures(ctx, store); err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}

	fixedTime := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	p := New(store, summary.Config{Mode: domain.GroupingBand}, outputDir, zerolog.Nop()).
		WithClock(func() time.Time { return fixedTime })

	report, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.TotalEvents != 9 {
		t.Errorf("Expected 9 total events, got %d", report.TotalEvents)
	}
	if report.ClosedEvents != 8 {
		t.Errorf("Expected 8 closed events, got %d", report.ClosedEvents)
	}
	if !report.GeneratedAt.Equal(fixedTime) {
		t.Errorf("Expected GeneratedAt %v, got %v", fixedTime, report.GeneratedAt)
	}

	md, err := os.ReadFile(filepath.Join(outputDir, ReportFileName))
	if err != nil {
		t.Fatalf("Report file missing: %v", err)
	}
	if !strings.Contains(string(md), "# Power Group Summary") {
		t.Error("Report file missing title")
	}

	csv, err := os.ReadFile(filepath.Join(outputDir, CSVFileName))
	if err != nil {
		t.Fatalf("CSV file missing: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(csv), "\n"), "\n")
	// Header plus one row per band: all five bands are covered by fixtures.
	if len(lines) != 6 {
		t.Errorf("Expected header + 5 band rows, got %d lines", len(lines))
	}
}

func TestRun_PersistsSummaryRows(t *testing.T) {
	ctx := context.Background()

	eventStore := memory.NewEventStore()
	if err := LoadFixtures(ctx, eventStore); err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}
	summaryStore := memory.NewSummaryStore()

	p := New(eventStore, summary.Config{Mode: domain.GroupingBand}, t.TempDir(), zerolog.Nop()).
		WithSummaryStore(summaryStore)

	if _, err := p.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rows, err := summaryStore.GetByMode(ctx, domain.GroupingBand)
	if err != nil {
		t.Fatalf("GetByMode failed: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("Expected 5 persisted rows, got %d", len(rows))
	}
}

func TestRun_EmptyStoreIsNotAnError(t *testing.T) {
	ctx := context.Background()

	p := New(memory.NewEventStore(), summary.Config{Mode: domain.GroupingBand}, t.TempDir(), zerolog.Nop())

	report, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed on empty store: %v", err)
	}
	if !report.NoData {
		t.Error("Expected no-data report")
	}
}

func TestRun_InvalidModeFails(t *testing.T) {
	ctx := context.Background()

	p := New(memory.NewEventStore(), summary.Config{Mode: "weekly"}, t.TempDir(), zerolog.Nop())

	if _, err := p.Run(ctx); err == nil {
		t.Fatal("Expected error for unknown grouping mode")
	}
}

func TestRun_Deterministic(t *testing.T) {
	ctx := context.Background()
	fixedClock := func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }

	var first string
	for run := 0; run < 3; run++ {
		outputDir := t.TempDir()
		store := memory.NewEventStore()
		if err := LoadFixtures(ctx, store); err != nil {
			t.Fatalf("LoadFixtures failed: %v", err)
		}

		p := New(store, summary.Config{Mode: domain.GroupingBand}, outputDir, zerolog.Nop()).
			WithClock(fixedClock)
		if _, err := p.Run(ctx); err != nil {
			t.Fatalf("Run %d failed: %v", run, err)
		}

		md, err := os.ReadFile(filepath.Join(outputDir, ReportFileName))
		if err != nil {
			t.Fatalf("Run %d: report file missing: %v", run, err)
		}
		if first == "" {
			first = string(md)
			continue
		}
		if string(md) != first {
			t.Errorf("Run %d: report output differs between runs", run)
		}
	}
}
