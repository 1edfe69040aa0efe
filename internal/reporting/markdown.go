package reporting

import (
	"fmt"
	"strings"
	"time"

	"curve-lab/internal/optimize"
)

// RenderMarkdown renders a run comparison report as Markdown.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Backtest Run Comparison\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d\n\n", len(r.Runs)))

	sb.WriteString("## Runs\n\n")
	sb.WriteString("| Rank | Run ID | Mode | Trades | Win Rate | Return | Sharpe | Max DD | Verified |\n")
	sb.WriteString("|------|--------|------|--------|----------|--------|--------|--------|----------|\n")
	for i, run := range r.Runs {
		s := run.Summary
		verified := "yes"
		if !run.Verified {
			verified = "NO"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %.1f%% | %+.1f%% | %.2f | %.1f%% | %s |\n",
			i+1, run.RunID, run.Mode, s.TotalTrades, s.WinRate, s.TotalReturnPct,
			s.SharpeRatio, s.MaxDrawdownPct, verified))
	}
	sb.WriteString("\n")

	var failed []RunRow
	for _, run := range r.Runs {
		if !run.Verified {
			failed = append(failed, run)
		}
	}
	if len(failed) > 0 {
		sb.WriteString("### Verification Failures\n\n")
		for _, run := range failed {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", run.RunID, run.VerifyError))
		}
		sb.WriteString("\n")
	}

	if r.Best != nil {
		sb.WriteString("## Best Run\n\n")
		sb.WriteString("```\n")
		sb.WriteString(strings.TrimPrefix(RenderText(r.Best), "\n"))
		sb.WriteString("```\n")
	}

	return sb.String()
}

// RenderGridMarkdown renders ranked grid search results as Markdown.
func RenderGridMarkdown(results []optimize.Result, objective optimize.Objective) string {
	var sb strings.Builder

	sb.WriteString("# Parameter Grid Search\n\n")
	sb.WriteString(fmt.Sprintf("Objective: %s | Combinations: %d\n\n", objective, len(results)))

	sb.WriteString("| Rank | TP % | SL % | Trail % | Hold min | Buy SOL | Trades | Win Rate | Return | Sharpe | PF | Score |\n")
	sb.WriteString("|------|------|------|---------|----------|---------|--------|----------|--------|--------|----|-------|\n")
	for i, r := range results {
		st := r.Config.Strategy
		s := r.Results.PerformanceSummary
		sb.WriteString(fmt.Sprintf("| %d | %.0f | %.0f | %.0f | %.0f | %.2f | %d | %.1f%% | %+.1f%% | %.2f | %.2f | %.4f |\n",
			i+1, st.TakeProfitPct, st.StopLossPct, st.TrailingStopPct, st.MaxPositionAgeMinutes, st.BuyAmountSOL,
			s.TotalTrades, s.WinRate, s.TotalReturnPct, s.SharpeRatio, s.ProfitFactor, r.Score))
	}

	return sb.String()
}
