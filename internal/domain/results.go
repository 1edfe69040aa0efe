package domain

// PerformanceSummary holds the statistics derived from closed positions.
// When TotalTrades is zero only StartingCapitalSOL and EndingCapitalSOL are set;
// every other field is zero.
type PerformanceSummary struct {
	StartingCapitalSOL float64 `json:"starting_capital_sol"`
	EndingCapitalSOL   float64 `json:"ending_capital_sol"`
	TotalPnLSOL        float64 `json:"total_pnl_sol"`
	TotalReturnPct     float64 `json:"total_return_pct"`

	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"` // percentage, 0-100

	AvgWinPct      float64 `json:"avg_win_pct"`
	AvgLossPct     float64 `json:"avg_loss_pct"`
	LargestWinPct  float64 `json:"largest_win_pct"`
	LargestLossPct float64 `json:"largest_loss_pct"`

	// SharpeRatio annualizes per-trade returns with a 252-period convention.
	// It is not calendar-aware.
	SharpeRatio          float64 `json:"sharpe_ratio"`
	ProfitFactor         float64 `json:"profit_factor"`
	MaxDrawdownPct       float64 `json:"max_drawdown_pct"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`

	AvgHoldTimeMinutes float64 `json:"avg_hold_time_minutes"`
	FallbackExits      int     `json:"fallback_exits"`
}

// Results is the immutable output of one backtest run.
type Results struct {
	RunID  string         `json:"run_id"`
	Config BacktestConfig `json:"config"`

	StartMs  int64 `json:"start_ms"` // first launch in window
	EndMs    int64 `json:"end_ms"`   // last launch in window
	Launches int   `json:"launches"`

	PerformanceSummary

	Positions     []*SimPosition `json:"positions"`      // closed, in close order
	OpenPositions []*SimPosition `json:"open_positions"` // still open when the replay ended
	Trades        []*Trade       `json:"trades"`
}
