// Package optimize searches a grid of strategy parameters by running
// independent backtests over one loaded engine.
package optimize

import (
	"fmt"

	"curve-lab/internal/domain"
)

// Grid lists candidate values per strategy parameter.
// An empty axis keeps the base configuration's value.
type Grid struct {
	TakeProfitPct   []float64 `yaml:"take_profit_pct" json:"take_profit_pct"`
	StopLossPct     []float64 `yaml:"stop_loss_pct" json:"stop_loss_pct"`
	TrailingStopPct []float64 `yaml:"trailing_stop_pct" json:"trailing_stop_pct"`
	MaxHoldMinutes  []float64 `yaml:"max_hold_minutes" json:"max_hold_minutes"`
	BuyAmountSOL    []float64 `yaml:"buy_amount_sol" json:"buy_amount_sol"`
}

// Size returns the number of combinations Expand produces.
func (g Grid) Size() int {
	n := 1
	for _, axis := range g.axes(domain.StrategyConfig{}) {
		n *= len(axis.values)
	}
	return n
}

type axis struct {
	values []float64
	set    func(*domain.StrategyConfig, float64)
}

// axes returns the grid dimensions, outermost first.
func (g Grid) axes(base domain.StrategyConfig) []axis {
	or := func(vs []float64, fallback float64) []float64 {
		if len(vs) == 0 {
			return []float64{fallback}
		}
		return vs
	}
	return []axis{
		{or(g.TakeProfitPct, base.TakeProfitPct), func(s *domain.StrategyConfig, v float64) { s.TakeProfitPct = v }},
		{or(g.StopLossPct, base.StopLossPct), func(s *domain.StrategyConfig, v float64) { s.StopLossPct = v }},
		{or(g.TrailingStopPct, base.TrailingStopPct), func(s *domain.StrategyConfig, v float64) { s.TrailingStopPct = v }},
		{or(g.MaxHoldMinutes, base.MaxPositionAgeMinutes), func(s *domain.StrategyConfig, v float64) { s.MaxPositionAgeMinutes = v }},
		{or(g.BuyAmountSOL, base.BuyAmountSOL), func(s *domain.StrategyConfig, v float64) { s.BuyAmountSOL = v }},
	}
}

// Expand returns the cartesian product of the grid applied to base.
// The order is deterministic: the last axis (BuyAmountSOL) varies fastest.
func (g Grid) Expand(base domain.BacktestConfig) []domain.BacktestConfig {
	axes := g.axes(base.Strategy)
	out := []domain.BacktestConfig{base}
	for _, a := range axes {
		next := make([]domain.BacktestConfig, 0, len(out)*len(a.values))
		for _, cfg := range out {
			for _, v := range a.values {
				c := cfg
				a.set(&c.Strategy, v)
				next = append(next, c)
			}
		}
		out = next
	}
	return out
}

// Label renders the strategy parameters that a grid varies.
func Label(s domain.StrategyConfig) string {
	return fmt.Sprintf("tp=%.0f sl=%.0f trail=%.0f hold=%.0f buy=%.2f",
		s.TakeProfitPct, s.StopLossPct, s.TrailingStopPct, s.MaxPositionAgeMinutes, s.BuyAmountSOL)
}
