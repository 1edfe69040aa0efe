package backtest

import "curve-lab/internal/domain"

// FallbackExitLossPct is the loss assumed when an exit cannot be priced.
const FallbackExitLossPct = 10.0

// buyFill applies mode slippage against a buyer.
func buyFill(price float64, cfg domain.BacktestConfig) float64 {
	return price * (1 + cfg.Mode.SlippageUnits()*cfg.SlippagePct/100)
}

// sellFill applies mode slippage against a seller.
func sellFill(price float64, cfg domain.BacktestConfig) float64 {
	return price * (1 - cfg.Mode.SlippageUnits()*cfg.SlippagePct/100)
}

// fallbackExitPrice is the assumed pre-slippage exit price when no price resolves.
func fallbackExitPrice(entryPrice float64) float64 {
	return entryPrice * (1 - FallbackExitLossPct/100)
}
