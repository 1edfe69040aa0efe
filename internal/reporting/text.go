// Package reporting renders backtest results for the console and for files.
package reporting

import (
	"fmt"
	"strings"

	"curve-lab/internal/domain"
	"curve-lab/internal/launchdata"
)

const ruleWidth = 76

var (
	banner  = strings.Repeat("=", ruleWidth)
	divider = strings.Repeat("-", ruleWidth)
)

// RenderText renders the fixed-layout console summary of a run.
// The layout and number formats are stable; snapshot tests depend on them.
func RenderText(r *domain.Results) string {
	var sb strings.Builder
	s := r.PerformanceSummary

	sb.WriteString("\n")
	sb.WriteString(banner + "\n")
	sb.WriteString(centered("BACKTEST RESULTS REPORT") + "\n")
	sb.WriteString(banner + "\n\n")

	sb.WriteString(fmt.Sprintf("PERIOD: %s to %s\n\n",
		launchdata.FormatTimestamp(r.StartMs), launchdata.FormatTimestamp(r.EndMs)))

	section(&sb, "CAPITAL & RETURNS")
	sb.WriteString(fmt.Sprintf("Starting Capital:    %.2f SOL\n", s.StartingCapitalSOL))
	sb.WriteString(fmt.Sprintf("Ending Capital:      %.2f SOL\n\n", s.EndingCapitalSOL))
	sb.WriteString(fmt.Sprintf("Total P&L:           %+.4f SOL\n", s.TotalPnLSOL))
	sb.WriteString(fmt.Sprintf("Total Return:        %+.1f%%\n\n", s.TotalReturnPct))

	section(&sb, "TRADE STATISTICS")
	sb.WriteString(fmt.Sprintf("Total Trades:        %d\n", s.TotalTrades))
	sb.WriteString(fmt.Sprintf("Winning Trades:      %d (%.1f%%)\n", s.WinningTrades, s.WinRate))
	sb.WriteString(fmt.Sprintf("Losing Trades:       %d\n\n", s.LosingTrades))
	sb.WriteString(fmt.Sprintf("Average Win:         %+.1f%%\n", s.AvgWinPct))
	sb.WriteString(fmt.Sprintf("Average Loss:        %+.1f%%\n\n", s.AvgLossPct))
	sb.WriteString(fmt.Sprintf("Largest Win:         %+.1f%%\n", s.LargestWinPct))
	sb.WriteString(fmt.Sprintf("Largest Loss:        %+.1f%%\n\n", s.LargestLossPct))

	section(&sb, "RISK METRICS")
	sb.WriteString(fmt.Sprintf("Sharpe Ratio:        %.2f\n", s.SharpeRatio))
	sb.WriteString(fmt.Sprintf("Profit Factor:       %.2fx\n", s.ProfitFactor))
	sb.WriteString(fmt.Sprintf("Max Drawdown:        %.1f%%\n\n", s.MaxDrawdownPct))
	sb.WriteString(fmt.Sprintf("Avg Hold Time:       %.0f minutes\n\n", s.AvgHoldTimeMinutes))

	sb.WriteString(divider + "\n")
	return sb.String()
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(divider + "\n")
	sb.WriteString(title + "\n")
	sb.WriteString(divider + "\n\n")
}

func centered(s string) string {
	pad := (ruleWidth - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
