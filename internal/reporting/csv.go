package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"curve-lab/internal/domain"
)

var positionColumns = []string{
	"position_id", "mint", "symbol", "status",
	"entry_time_ms", "entry_price", "entry_amount_sol",
	"exit_time_ms", "exit_price", "exit_amount_sol", "exit_reason", "exit_price_source",
	"pnl_sol", "pnl_pct", "hold_time_minutes",
}

// RenderPositionsCSV renders positions as CSV, one row per position.
// Open positions leave the exit columns empty.
func RenderPositionsCSV(positions []*domain.SimPosition) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write(positionColumns)
	for _, p := range positions {
		row := []string{
			p.PositionID,
			p.Mint,
			p.Symbol,
			string(p.Status),
			strconv.FormatInt(p.EntryTimeMs, 10),
			formatFloat(p.EntryPrice),
			formatFloat(p.EntryAmountSOL),
			"", "", "", "", "",
			"", "", "",
		}
		if p.IsClosed() {
			row[7] = strconv.FormatInt(p.ExitTimeMs, 10)
			row[8] = formatFloat(p.ExitPrice)
			row[9] = formatFloat(p.ExitAmountSOL)
			row[10] = string(p.ExitReason)
			row[11] = string(p.ExitPriceSource)
			row[12] = formatFloat(p.PnLSOL)
			row[13] = strconv.FormatFloat(p.PnLPct, 'f', 2, 64)
			row[14] = strconv.Itoa(p.HoldTimeMinutes)
		}
		_ = w.Write(row)
	}
	w.Flush()

	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
