package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"curve-lab/internal/domain"
	"curve-lab/internal/observability"
	"curve-lab/internal/storage"
)

// Runner loads launch history from storage, runs the engine and persists results.
type Runner struct {
	launchStore storage.LaunchStore
	seriesStore storage.PriceSeriesStore
	resultStore storage.ResultStore
	metrics     *observability.Metrics
	logger      *zap.Logger
	admit       AdmissionFilter
}

// RunnerOptions contains configuration for creating a Runner.
// Only LaunchStore is required.
type RunnerOptions struct {
	LaunchStore     storage.LaunchStore
	SeriesStore     storage.PriceSeriesStore // fills launches stored without history
	ResultStore     storage.ResultStore
	Metrics         *observability.Metrics
	Logger          *zap.Logger
	AdmissionFilter AdmissionFilter
}

// NewRunner creates a backtest runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		launchStore: opts.LaunchStore,
		seriesStore: opts.SeriesStore,
		resultStore: opts.ResultStore,
		metrics:     opts.Metrics,
		logger:      logger,
		admit:       opts.AdmissionFilter,
	}
}

// LoadEngine builds an engine over the stored launches inside window.
// Steps:
//  1. Load launches in window
//  2. Fill empty price histories from the series store
//  3. Load the engine
func (r *Runner) LoadEngine(ctx context.Context, window Window) (*Engine, error) {
	// 1. Load launches in window
	launches, err := r.launchStore.GetByTimeRange(ctx, window.FromMs, window.ToMs)
	if err != nil {
		return nil, fmt.Errorf("load launches: %w", err)
	}

	// 2. Fill empty price histories
	records := make([]domain.LaunchRecord, 0, len(launches))
	for _, l := range launches {
		if len(l.PriceHistory) == 0 && r.seriesStore != nil {
			points, err := r.seriesStore.GetByMint(ctx, l.Mint)
			if err != nil {
				return nil, fmt.Errorf("load price series %s: %w", l.Mint, err)
			}
			l.PriceHistory = points
		}
		records = append(records, *l)
	}

	// 3. Load the engine
	engine := NewEngine(WithLogger(r.logger), WithAdmissionFilter(r.admit))
	engine.Load(records)

	r.logger.Info("launch history loaded",
		zap.Int("launches", engine.Len()),
		zap.Int64("from_ms", window.FromMs),
		zap.Int64("to_ms", window.ToMs),
	)
	return engine, nil
}

// Run executes one backtest over the stored launches inside window.
// Steps:
//  1. Build the engine from storage
//  2. Run the simulation
//  3. Record metrics
//  4. Persist results (an identical run already stored is not an error)
func (r *Runner) Run(ctx context.Context, cfg domain.BacktestConfig, window Window) (*domain.Results, error) {
	// 1. Build the engine from storage
	engine, err := r.LoadEngine(ctx, window)
	if err != nil {
		return nil, err
	}

	// 2. Run the simulation
	start := time.Now()
	res, err := engine.Run(cfg, window)

	// 3. Record metrics
	if r.metrics != nil {
		r.metrics.RecordRun(cfg.Mode, res, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("backtest finished",
		zap.String("run_id", res.RunID),
		zap.String("mode", string(cfg.Mode)),
		zap.Int("launches", res.Launches),
		zap.Int("closed", res.TotalTrades),
		zap.Int("open", len(res.OpenPositions)),
		zap.Float64("total_return_pct", res.TotalReturnPct),
	)

	// 4. Persist results
	if r.resultStore != nil {
		err := r.resultStore.SaveRun(ctx, res)
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			r.logger.Info("run already stored", zap.String("run_id", res.RunID))
		case err != nil:
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	return res, nil
}
