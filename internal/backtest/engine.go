// Package backtest replays historical launches through a strategy's entry and
// exit rules and reduces the outcome to performance statistics.
package backtest

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"curve-lab/internal/domain"
)

// ErrNoData is returned when no launch falls inside the requested window.
var ErrNoData = errors.New("no historical data in specified range")

// AdmissionFilter is an extra entry predicate ANDed into the numeric filters.
// It must be deterministic and must not modify the launch.
type AdmissionFilter func(launch *domain.LaunchRecord) bool

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAdmissionFilter injects an extra entry predicate.
func WithAdmissionFilter(f AdmissionFilter) Option {
	return func(e *Engine) {
		e.admit = f
	}
}

// Engine holds loaded launch history. Runs never modify it, so one loaded
// engine can serve concurrent runs.
type Engine struct {
	mu       sync.RWMutex
	launches []*domain.LaunchRecord

	admit  AdmissionFilter
	logger *zap.Logger
}

// NewEngine creates an engine with no data loaded.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the engine's history with a private copy of records,
// stably sorted by timestamp.
func (e *Engine) Load(records []domain.LaunchRecord) {
	launches := make([]*domain.LaunchRecord, len(records))
	for i := range records {
		rec := records[i]
		rec.PriceHistory = append([]domain.PricePoint(nil), records[i].PriceHistory...)
		launches[i] = &rec
	}
	sort.SliceStable(launches, func(i, j int) bool {
		return launches[i].TimestampMs < launches[j].TimestampMs
	})

	e.mu.Lock()
	e.launches = launches
	e.mu.Unlock()

	e.logger.Debug("launch history loaded", zap.Int("launches", len(launches)))
}

// Len returns the number of loaded launches.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.launches)
}

// Run simulates cfg over the launches inside window.
// Returns ErrNoData before any simulation state exists if the window is empty.
// Identical inputs always produce identical results.
func (e *Engine) Run(cfg domain.BacktestConfig, window Window) (*domain.Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	data := e.filter(window)
	if len(data) == 0 {
		return nil, ErrNoData
	}

	sim := newSimulation(cfg, e.admit, e.logger)
	for _, launch := range data {
		sim.step(launch)
	}

	results, err := sim.results(window, data)
	if err != nil {
		return nil, fmt.Errorf("build results: %w", err)
	}
	return results, nil
}

// filter returns the launches inside window in timestamp order.
func (e *Engine) filter(window Window) []*domain.LaunchRecord {
	e.mu.RLock()
	launches := e.launches
	e.mu.RUnlock()

	var out []*domain.LaunchRecord
	for _, l := range launches {
		if window.Contains(l.TimestampMs) {
			out = append(out, l)
		}
	}
	return out
}
