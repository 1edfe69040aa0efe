package optimize

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"curve-lab/internal/backtest"
	"curve-lab/internal/domain"
	"curve-lab/internal/observability"
)

// Objective selects the statistic used to rank combinations.
type Objective string

// Objectives.
const (
	ObjectiveSharpe       Objective = "sharpe"
	ObjectiveReturn       Objective = "return"
	ObjectiveProfitFactor Objective = "profit_factor"
)

// IsValid reports whether o is a known objective.
func (o Objective) IsValid() bool {
	switch o {
	case ObjectiveSharpe, ObjectiveReturn, ObjectiveProfitFactor:
		return true
	}
	return false
}

// Score extracts the objective's statistic from a summary.
func (o Objective) Score(s domain.PerformanceSummary) float64 {
	switch o {
	case ObjectiveReturn:
		return s.TotalReturnPct
	case ObjectiveProfitFactor:
		return s.ProfitFactor
	default:
		return s.SharpeRatio
	}
}

// Result is one evaluated grid combination.
type Result struct {
	Index   int // position in Grid.Expand order
	Config  domain.BacktestConfig
	Results *domain.Results
	Score   float64
}

// Options tunes a search.
type Options struct {
	Objective Objective
	Workers   int // <= 0 uses runtime.NumCPU()
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// Run evaluates every combination of grid over base against the engine's
// loaded history and returns them best first. Ties keep expansion order.
// Every combination is validated before any run starts.
func Run(ctx context.Context, engine *backtest.Engine, base domain.BacktestConfig, grid Grid, window backtest.Window, opts Options) ([]Result, error) {
	if opts.Objective == "" {
		opts.Objective = ObjectiveSharpe
	}
	if !opts.Objective.IsValid() {
		return nil, fmt.Errorf("unknown objective %q", opts.Objective)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	configs := grid.Expand(base)
	for i, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("combination %d (%s): %w", i, Label(cfg.Strategy), err)
		}
	}

	logger.Info("grid search started",
		zap.Int("combinations", len(configs)),
		zap.Int("workers", workers),
		zap.String("objective", string(opts.Objective)),
	)

	results := make([]Result, len(configs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range configs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			started := time.Now()
			res, err := engine.Run(cfg, window)
			if opts.Metrics != nil {
				opts.Metrics.RecordRun(cfg.Mode, res, time.Since(started), err)
				opts.Metrics.GridCombinations.Inc()
			}
			if err != nil {
				return fmt.Errorf("combination %d (%s): %w", i, Label(cfg.Strategy), err)
			}

			// each goroutine owns its slot
			results[i] = Result{
				Index:   i,
				Config:  cfg,
				Results: res,
				Score:   opts.Objective.Score(res.PerformanceSummary),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	logger.Info("grid search completed",
		zap.String("best", Label(results[0].Config.Strategy)),
		zap.Float64("score", results[0].Score),
	)
	return results, nil
}
