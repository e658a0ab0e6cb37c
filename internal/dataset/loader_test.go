package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"power-band-lab/internal/observability"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	// The error names the resolved path.
	if err != nil && !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("Error should include the path: %v", err)
	}
}

func TestLoad_BasicRecords(t *testing.T) {
	path := writeDataset(t, `[
		{"symbol": "SOLUSDT", "dir": "LONG", "power": 72.5, "exit_reason": "TP", "gain_pct": 3.4, "duration_sec": 120, "status": "CLOSED"},
		{"symbol": "ETHUSDT", "dir": "SHORT", "power": 55}
	]`)

	events, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	e := events[0]
	if e.Symbol != "SOLUSDT" || e.Dir != "LONG" {
		t.Errorf("Identity fields wrong: %s %s", e.Symbol, e.Dir)
	}
	if e.Power == nil || *e.Power != 72.5 {
		t.Errorf("Expected power 72.5, got %v", e.Power)
	}
	if e.ExitReason == nil || *e.ExitReason != "TP" {
		t.Errorf("Expected exit reason TP, got %v", e.ExitReason)
	}
	if e.DurationSec == nil || *e.DurationSec != 120 {
		t.Errorf("Expected duration 120, got %v", e.DurationSec)
	}

	if events[1].ExitReason != nil || events[1].Status != nil {
		t.Error("Absent fields must decode to nil")
	}
}

func TestLoad_DeterministicEventIDs(t *testing.T) {
	content := `[
		{"symbol": "SOLUSDT", "dir": "LONG", "power": 72.5},
		{"symbol": "SOLUSDT", "dir": "LONG", "power": 80.1}
	]`
	path := writeDataset(t, content)

	first, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	for i := range first {
		if first[i].EventID != second[i].EventID {
			t.Errorf("Record %d: IDs differ between loads", i)
		}
	}
	// Identical identity fields at different positions still get distinct IDs.
	if first[0].EventID == first[1].EventID {
		t.Error("Expected distinct IDs for distinct positions")
	}
}

func TestLoad_CoercesInvalidValues(t *testing.T) {
	path := writeDataset(t, `[
		{"symbol": "SOLUSDT", "dir": "LONG", "power": "not-a-number", "gain_pct": "4.25", "exit_reason": "", "duration_sec": {"nested": true}}
	]`)

	events, err := Load(path)
	if err != nil {
		t.Fatalf("Invalid values must coerce, not fail: %v", err)
	}

	e := events[0]
	if e.Power != nil {
		t.Errorf("Non-numeric power must be missing, got %v", *e.Power)
	}
	if e.GainPct == nil || *e.GainPct != 4.25 {
		t.Errorf("Numeric string must parse, got %v", e.GainPct)
	}
	if e.ExitReason != nil {
		t.Error("Empty exit_reason must be missing")
	}
	if e.DurationSec != nil {
		t.Error("Object-valued duration must be missing")
	}
}

func TestLoad_CoercionIsCounted(t *testing.T) {
	powerBefore := testutil.ToFloat64(observability.DefaultMetrics.ValuesCoerced.WithLabelValues("power"))
	timeBefore := testutil.ToFloat64(observability.DefaultMetrics.ValuesCoerced.WithLabelValues("open_time"))

	path := writeDataset(t, `[
		{"symbol": "S", "dir": "L", "power": "bad", "open_time": "garbage", "gain_pct": 1.5}
	]`)
	if _, err := Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	powerAfter := testutil.ToFloat64(observability.DefaultMetrics.ValuesCoerced.WithLabelValues("power"))
	timeAfter := testutil.ToFloat64(observability.DefaultMetrics.ValuesCoerced.WithLabelValues("open_time"))

	if powerAfter-powerBefore != 1 {
		t.Errorf("Expected 1 coerced power value, got %v", powerAfter-powerBefore)
	}
	if timeAfter-timeBefore != 1 {
		t.Errorf("Expected 1 coerced open_time value, got %v", timeAfter-timeBefore)
	}
}

func TestLoad_Timestamps(t *testing.T) {
	path := writeDataset(t, `[
		{"symbol": "S", "dir": "L", "open_time": "2024-01-01T10:00:00Z", "close_time": "2024-01-01 10:05:00"},
		{"symbol": "S", "dir": "L", "open_time": "garbage"}
	]`)

	events, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	e := events[0]
	if e.OpenTime == nil {
		t.Fatal("RFC3339 open_time must parse")
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !e.OpenTime.Equal(want) {
		t.Errorf("Expected %v, got %v", want, e.OpenTime)
	}
	if e.CloseTime == nil {
		t.Error("Space-separated close_time must parse")
	}

	if events[1].OpenTime != nil {
		t.Error("Unparseable timestamp must be missing")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeDataset(t, `{not valid json`)

	if _, err := Load(path); err == nil {
		t.Fatal("Expected decode error for malformed JSON")
	}
}

func TestLoad_EmptyCollection(t *testing.T) {
	path := writeDataset(t, `[]`)

	events, err := Load(path)
	if err != nil {
		t.Fatalf("Empty collection must load: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected 0 events, got %d", len(events))
	}
}
