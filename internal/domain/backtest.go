package domain

import "fmt"

// Backtest defaults.
const (
	DefaultExecutionDelayMs       = 2000
	DefaultSlippagePct            = 1.0
	DefaultStartingCapitalSOL     = 10.0
	DefaultMaxConcurrentPositions = 3
	DefaultFallbackPrice          = 0.000001
)

// BacktestConfig is the full input of a backtest run besides the launch data.
type BacktestConfig struct {
	Strategy StrategyConfig `yaml:"strategy" json:"strategy"`

	Mode             Mode    `yaml:"mode" json:"mode"`
	ExecutionDelayMs int64   `yaml:"execution_delay_ms" json:"execution_delay_ms"` // simulated latency
	SlippagePct      float64 `yaml:"slippage_pct" json:"slippage_pct"`

	StartingCapitalSOL     float64 `yaml:"starting_capital_sol" json:"starting_capital_sol"`
	MaxConcurrentPositions int     `yaml:"max_concurrent_positions" json:"max_concurrent_positions"`

	// DefaultPrice is used when a launch has no samples and no initial price.
	// Zero leaves such launches unpriced.
	DefaultPrice float64     `yaml:"default_price" json:"default_price"`
	ExitPricing  ExitPricing `yaml:"exit_pricing" json:"exit_pricing"`
}

// DefaultBacktestConfig returns a realistic run with the default strategy.
func DefaultBacktestConfig() BacktestConfig {
	return BacktestConfig{
		Strategy:               DefaultStrategyConfig(),
		Mode:                   ModeRealistic,
		ExecutionDelayMs:       DefaultExecutionDelayMs,
		SlippagePct:            DefaultSlippagePct,
		StartingCapitalSOL:     DefaultStartingCapitalSOL,
		MaxConcurrentPositions: DefaultMaxConcurrentPositions,
		DefaultPrice:           DefaultFallbackPrice,
		ExitPricing:            ExitPricingOwnSeries,
	}
}

// Validate checks the run parameters and the embedded strategy.
func (c BacktestConfig) Validate() error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if !c.ExitPricing.IsValid() {
		return fmt.Errorf("%w: unknown exit pricing %q", ErrInvalidConfig, c.ExitPricing)
	}
	if c.ExecutionDelayMs < 0 {
		return fmt.Errorf("%w: execution_delay_ms must not be negative", ErrInvalidConfig)
	}
	// two slippage units must leave a positive sell price
	if !nonNegative(c.SlippagePct) || c.SlippagePct >= 50 {
		return fmt.Errorf("%w: slippage_pct must be in [0, 50)", ErrInvalidConfig)
	}
	if !positive(c.StartingCapitalSOL) {
		return fmt.Errorf("%w: starting_capital_sol must be positive", ErrInvalidConfig)
	}
	if c.MaxConcurrentPositions < 1 {
		return fmt.Errorf("%w: max_concurrent_positions must be at least 1", ErrInvalidConfig)
	}
	if !nonNegative(c.DefaultPrice) {
		return fmt.Errorf("%w: default_price must not be negative", ErrInvalidConfig)
	}
	return c.Strategy.Validate()
}
