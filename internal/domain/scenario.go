package domain

// Mode selects the execution scenario used to fill simulated trades.
type Mode string

// Execution modes.
const (
	ModeOptimistic  Mode = "optimistic"  // fills at the resolved price
	ModeRealistic   Mode = "realistic"   // one unit of slippage against the trader
	ModePessimistic Mode = "pessimistic" // two units of slippage against the trader
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeOptimistic, ModeRealistic, ModePessimistic:
		return true
	}
	return false
}

// SlippageUnits returns how many multiples of the configured slippage apply.
func (m Mode) SlippageUnits() float64 {
	switch m {
	case ModeRealistic:
		return 1
	case ModePessimistic:
		return 2
	}
	return 0
}

// ExitPricing selects which price series marks open positions on each tick.
type ExitPricing string

// Exit pricing sources.
const (
	// ExitPricingOwnSeries marks every open position against its own launch's series.
	ExitPricingOwnSeries ExitPricing = "own_series"

	// ExitPricingCurrentLaunch marks every open position against the series of the
	// launch being processed, whichever token it belongs to. Kept for numeric
	// compatibility with earlier backtest outputs.
	ExitPricingCurrentLaunch ExitPricing = "current_launch"
)

// IsValid reports whether p is a known pricing source.
func (p ExitPricing) IsValid() bool {
	return p == ExitPricingOwnSeries || p == ExitPricingCurrentLaunch
}
