package domain

import "time"

// Event represents one trading event from the simulator dataset.
// Every analytical field is optional: the source collection does not
// guarantee any column beyond the record itself, so absence is modeled
// with nil pointers and every derived computation handles the nil case.
type Event struct {
	EventID string // deterministic hash
	Symbol  string // instrument identifier
	Dir     string // direction tag ("LONG"/"SHORT" or similar)

	Power      *float64 // signal strength, 0-100 typical range
	ExitReason *string  // "TP", "SL", or any other reason code
	GainPct    *float64 // percentage return
	Status     *string  // lifecycle status, e.g. "CLOSED"

	// Duration sources, in resolution priority order.
	DurationSec *float64   // already-resolved duration in seconds
	OpenTime    *time.Time // ISO-8601 open timestamp
	CloseTime   *time.Time // ISO-8601 close timestamp
	OpenTS      *float64   // numeric epoch-like open marker
	CloseTS     *float64   // numeric epoch-like close marker
	OpenAfterTS *float64   // fallback numeric marker (approximate)
}

// Common exit reason codes. The exit_reason vocabulary is open; these two
// are the ones the summarizer counts explicitly.
const (
	ExitReasonTakeProfit = "TP"
	ExitReasonStopLoss   = "SL"
)

// StatusClosed marks a completed trade lifecycle.
const StatusClosed = "CLOSED"
