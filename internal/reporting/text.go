package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderText renders a compact plain-text version of the report for
// console output.
func RenderText(r *Report) string {
	var sb strings.Builder

	sb.WriteString("POWER GROUP SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Mode: %s  Events: %d  Closed: %d\n", r.Mode, r.TotalEvents, r.ClosedEvents))

	if r.NoData {
		sb.WriteString("\nNo data.\n")
		return sb.String()
	}

	if !r.DataQuality.Clean() {
		sb.WriteString("\nData quality:\n")
		for _, col := range r.DataQuality.MissingColumns {
			sb.WriteString(fmt.Sprintf("  missing column: %s\n", col))
		}
		for _, err := range r.DataQuality.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("  integrity: %s\n", err))
		}
	}

	sb.WriteString("\nGroups:\n")
	sb.WriteString(fmt.Sprintf("  %-12s %6s %6s %6s %10s %12s\n",
		"GROUP", "TOTAL", "CLOSED", "TP", "TP RATE %", "AVG DUR (s)"))
	for _, grp := range r.Groups {
		sb.WriteString(fmt.Sprintf("  %-12s %6d %6d %6d %10s %12s\n",
			grp.Group.Label, grp.TotalTrades, grp.ClosedTrades, grp.TPCount,
			cell(grp.TPRatePct, 2), cell(grp.AvgDurationSec, 2)))
	}

	if r.Fastest != nil {
		sb.WriteString(fmt.Sprintf("\nFastest closing group: %s (%s s avg over %d closed)\n",
			r.Fastest.Group.Label, cell(r.Fastest.AvgDurationSec, 2), r.Fastest.ClosedTrades))
	}

	return sb.String()
}
