package summary

import (
	"strings"

	"power-band-lab/internal/domain"
)

// IsClosed reports whether an event represents a completed trade: the
// status field equals "CLOSED" (case-insensitive) or any exit reason is
// recorded. Both fields absent means the trade is still open; no error.
func IsClosed(e *domain.Event) bool {
	if e == nil {
		return false
	}
	if e.Status != nil && strings.ToUpper(*e.Status) == domain.StatusClosed {
		return true
	}
	return e.ExitReason != nil
}

// isExitReason matches an exit reason code case-insensitively on closed
// events. Absent exit_reason never matches.
func isExitReason(e *domain.Event, reason string) bool {
	return e.ExitReason != nil && strings.EqualFold(*e.ExitReason, reason)
}
