package reporting

import (
	"fmt"
	"strings"

	"power-band-lab/internal/domain"
)

// RenderGroupSummaryCSV renders the per-group table as a CSV string.
// Missing statistics render as empty cells.
func RenderGroupSummaryCSV(groups []domain.GroupSummary) string {
	var sb strings.Builder

	// Header
	sb.WriteString("grouping_mode,group,total_trades,closed_trades,open_trades,")
	sb.WriteString("tp_count,sl_count,tp_rate_pct,avg_gain_pct,")
	sb.WriteString("avg_duration_sec,median_duration_sec,min_duration_sec,max_duration_sec,avg_duration_min\n")

	// Rows
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%d,%d,%d,%s,%s,%s,%s,%s,%s,%s\n",
			g.Mode,
			g.Group.Label,
			g.TotalTrades,
			g.ClosedTrades,
			g.OpenTrades,
			g.TPCount,
			g.SLCount,
			csvCell(g.TPRatePct),
			csvCell(g.AvgGainPct),
			csvCell(g.AvgDurationSec),
			csvCell(g.MedianDurationSec),
			csvCell(g.MinDurationSec),
			csvCell(g.MaxDurationSec),
			csvCell(g.AvgDurationMin),
		))
	}

	return sb.String()
}

// csvCell formats a nullable statistic; missing values stay empty.
func csvCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}
