package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// StrategyConfig holds the entry filters and exit thresholds under test.
// Percentages are expressed as 0-100.
type StrategyConfig struct {
	BuyAmountSOL        float64 `yaml:"buy_amount_sol" json:"buy_amount_sol"`
	MaxTotalExposureSOL float64 `yaml:"max_total_exposure_sol" json:"max_total_exposure_sol"` // 0 = unlimited

	MinInitialLiquiditySOL float64 `yaml:"min_initial_liquidity_sol" json:"min_initial_liquidity_sol"`
	MaxInitialMarketCapSOL float64 `yaml:"max_initial_market_cap_sol" json:"max_initial_market_cap_sol"`

	TakeProfitPct         float64 `yaml:"take_profit_pct" json:"take_profit_pct"`
	StopLossPct           float64 `yaml:"stop_loss_pct" json:"stop_loss_pct"`
	TrailingStopPct       float64 `yaml:"trailing_stop_pct" json:"trailing_stop_pct"`
	MaxPositionAgeMinutes float64 `yaml:"max_position_age_minutes" json:"max_position_age_minutes"`
}

// DefaultStrategyConfig returns the baseline sniping strategy.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		BuyAmountSOL:           0.1,
		MinInitialLiquiditySOL: 5.0,
		MaxInitialMarketCapSOL: 100.0,
		TakeProfitPct:          100.0,
		StopLossPct:            30.0,
		TrailingStopPct:        15.0,
		MaxPositionAgeMinutes:  60.0,
	}
}

// Validate checks that every threshold is usable.
func (c StrategyConfig) Validate() error {
	checks := []struct {
		ok    bool
		field string
	}{
		{positive(c.BuyAmountSOL), "buy_amount_sol must be positive"},
		{nonNegative(c.MaxTotalExposureSOL), "max_total_exposure_sol must not be negative"},
		{nonNegative(c.MinInitialLiquiditySOL), "min_initial_liquidity_sol must not be negative"},
		{nonNegative(c.MaxInitialMarketCapSOL), "max_initial_market_cap_sol must not be negative"},
		{positive(c.TakeProfitPct), "take_profit_pct must be positive"},
		{positive(c.StopLossPct), "stop_loss_pct must be positive"},
		{positive(c.TrailingStopPct) && c.TrailingStopPct <= 100, "trailing_stop_pct must be in (0, 100]"},
		{positive(c.MaxPositionAgeMinutes), "max_position_age_minutes must be positive"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, ch.field)
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
