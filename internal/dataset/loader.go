// Package dataset loads the simulator's trading event collection from disk.
// Decoding is tolerant: any field may be absent or carry a non-numeric
// value, and such values coerce to missing instead of failing the load.
// The only hard failure is a missing source file.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"power-band-lab/internal/domain"
	"power-band-lab/internal/idhash"
	"power-band-lab/internal/observability"
)

// ErrNotFound is returned when the source data file does not exist at the
// resolved path. This is the one fatal input condition.
var ErrNotFound = errors.New("data file not found")

// DefaultFileName is the conventional dataset file name.
const DefaultFileName = "sim_closed.json"

// Load reads and decodes a dataset file into events. Event IDs are
// deterministic content hashes including the record position, so reloading
// the same file yields the same IDs.
func Load(path string) ([]*domain.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	events := make([]*domain.Event, len(raw))
	for i, rec := range raw {
		events[i] = DecodeRecord(rec, idhash.SourceDataset, i)
	}
	return events, nil
}

// DecodeRecord maps one raw JSON object to an Event, coercing invalid
// values to missing. The source tag and sequence number feed the
// deterministic ID; records from different sources never share IDs.
func DecodeRecord(rec map[string]any, source string, seq int) *domain.Event {
	symbol := stringValue(rec, "symbol")
	dir := stringValue(rec, "dir")

	return &domain.Event{
		EventID: idhash.ComputeEventID(source, symbol, dir, seq),
		Symbol:  symbol,
		Dir:     dir,

		Power:      numberValue(rec, "power"),
		ExitReason: optionalString(rec, "exit_reason"),
		GainPct:    numberValue(rec, "gain_pct"),
		Status:     optionalString(rec, "status"),

		DurationSec: numberValue(rec, "duration_sec"),
		OpenTime:    timeValue(rec, "open_time"),
		CloseTime:   timeValue(rec, "close_time"),
		OpenTS:      numberValue(rec, "open_ts"),
		CloseTS:     numberValue(rec, "close_ts"),
		OpenAfterTS: numberValue(rec, "open_after_ts"),
	}
}

// stringValue returns the field as a string, or "" when absent or not a string.
func stringValue(rec map[string]any, key string) string {
	if s, ok := rec[key].(string); ok {
		return s
	}
	return ""
}

// optionalString returns the field as a string pointer, nil when absent,
// empty, or not a string.
func optionalString(rec map[string]any, key string) *string {
	s, ok := rec[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// numberValue coerces the field to a float64 pointer. JSON numbers pass
// through; numeric strings parse; everything else present is counted as a
// coerced value and becomes missing.
func numberValue(rec map[string]any, key string) *float64 {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			observability.RecordValueCoerced(key)
			return nil
		}
		return &f
	default:
		observability.RecordValueCoerced(key)
		return nil
	}
}

// accepted timestamp layouts, tried in order
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// timeValue parses the field as an ISO-8601-ish timestamp, nil when absent.
// A present but unparseable value counts as coerced.
func timeValue(rec map[string]any, key string) *time.Time {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		observability.RecordValueCoerced(key)
		return nil
	}
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	observability.RecordValueCoerced(key)
	return nil
}
