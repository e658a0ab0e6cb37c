package reporting

import (
	"fmt"
	"strings"
	"time"
)

// missingCell marks an unavailable statistic in rendered tables.
const missingCell = "NA"

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Power Group Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Grouping mode: %s | Events: %d | Closed: %d\n\n",
		r.Mode, r.TotalEvents, r.ClosedEvents))

	if r.NoData {
		sb.WriteString("**No data.** The input collection produced no groups.\n\n")
	}

	// Data Quality
	if !r.DataQuality.Clean() {
		sb.WriteString("## Data Quality\n\n")
		for _, col := range r.DataQuality.MissingColumns {
			sb.WriteString(fmt.Sprintf("- column `%s` missing from all records; derived output unavailable\n", col))
		}
		for _, err := range r.DataQuality.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- integrity: %s\n", err))
		}
		sb.WriteString("\n")
	}

	// Per-group table
	sb.WriteString("## Groups\n\n")
	if len(r.Groups) > 0 {
		sb.WriteString("| Group | Total | Closed | Open | TP | SL | TP Rate % | Avg Gain % | Avg Dur (s) | Median Dur (s) | Min Dur (s) | Max Dur (s) | Avg Dur (min) |\n")
		sb.WriteString("|-------|-------|--------|------|----|----|-----------|------------|-------------|----------------|-------------|-------------|---------------|\n")
		for _, grp := range r.Groups {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				grp.Group.Label, grp.TotalTrades, grp.ClosedTrades, grp.OpenTrades,
				grp.TPCount, grp.SLCount,
				cell(grp.TPRatePct, 2), cell(grp.AvgGainPct, 4),
				cell(grp.AvgDurationSec, 2), cell(grp.MedianDurationSec, 2),
				cell(grp.MinDurationSec, 2), cell(grp.MaxDurationSec, 2),
				cell(grp.AvgDurationMin, 2)))
		}
	} else {
		sb.WriteString("No groups available.\n")
	}
	sb.WriteString("\n")

	// Fastest group
	sb.WriteString("## Fastest Closing Group\n\n")
	if r.Fastest != nil {
		sb.WriteString(fmt.Sprintf("Group **%s**: mean duration %s s over %d closed trade(s).\n",
			r.Fastest.Group.Label, cell(r.Fastest.AvgDurationSec, 2), r.Fastest.ClosedTrades))
	} else {
		sb.WriteString("No group has closed trades.\n")
	}
	sb.WriteString("\n")

	// Duration ranking
	sb.WriteString("## Groups by Mean Duration (ascending)\n\n")
	if len(r.DurationRanking) > 0 {
		sb.WriteString("| Rank | Group | Avg Dur (s) | Closed |\n")
		sb.WriteString("|------|-------|-------------|--------|\n")
		for i, grp := range r.DurationRanking {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d |\n",
				i+1, grp.Group.Label, cell(grp.AvgDurationSec, 2), grp.ClosedTrades))
		}
	} else {
		sb.WriteString("No ranking available.\n")
	}
	sb.WriteString("\n")

	// Top by closed count
	sb.WriteString("## Groups by Closed Trades\n\n")
	if len(r.TopClosed) > 0 {
		sb.WriteString("| Rank | Group | Closed | TP Rate % |\n")
		sb.WriteString("|------|-------|--------|-----------|\n")
		for i, grp := range r.TopClosed {
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | %s |\n",
				i+1, grp.Group.Label, grp.ClosedTrades, cell(grp.TPRatePct, 2)))
		}
	} else {
		sb.WriteString("No ranking available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// cell formats a nullable statistic for table output.
func cell(v *float64, decimals int) string {
	if v == nil {
		return missingCell
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}
