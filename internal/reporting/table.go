package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"curve-lab/internal/domain"
)

// RenderPositionsTable writes closed positions as a console table.
func RenderPositionsTable(w io.Writer, positions []*domain.SimPosition) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Symbol", "Entry", "Exit", "PnL SOL", "PnL %", "Hold", "Exit Reason")

	for i, p := range positions {
		if !p.IsClosed() {
			continue
		}
		reason := p.ExitDetail
		if reason == "" {
			reason = string(p.ExitReason)
		}
		if p.IsFallbackExit() {
			reason += " (fallback)"
		}
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			p.Symbol,
			fmt.Sprintf("%.8f", p.EntryPrice),
			fmt.Sprintf("%.8f", p.ExitPrice),
			fmt.Sprintf("%+.4f", p.PnLSOL),
			fmt.Sprintf("%+.1f%%", p.PnLPct),
			fmt.Sprintf("%dm", p.HoldTimeMinutes),
			reason,
		); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	return table.Render()
}
