package backtest

import (
	"go.uber.org/zap"

	"curve-lab/internal/domain"
	"curve-lab/internal/idhash"
	"curve-lab/internal/metrics"
)

// holding pairs an open position with the launch it was bought from.
type holding struct {
	pos    *domain.SimPosition
	launch *domain.LaunchRecord
}

// simulation is the state of a single run. It is never shared between runs.
type simulation struct {
	cfg    domain.BacktestConfig
	admit  AdmissionFilter
	logger *zap.Logger

	capital  float64
	exposure float64 // SOL currently held in open positions
	entries  int

	open   []holding
	closed []*domain.SimPosition
	trades []*domain.Trade
	traded map[string]struct{}
}

func newSimulation(cfg domain.BacktestConfig, admit AdmissionFilter, logger *zap.Logger) *simulation {
	return &simulation{
		cfg:     cfg,
		admit:   admit,
		logger:  logger,
		capital: cfg.StartingCapitalSOL,
		traded:  make(map[string]struct{}),
	}
}

// step processes one launch: entry decision first, then exits for every open position.
func (s *simulation) step(launch *domain.LaunchRecord) {
	if s.shouldEnter(launch) {
		s.enter(launch)
	}
	s.processExits(launch)
}

// results reduces the run state to an immutable Results value.
func (s *simulation) results(window Window, data []*domain.LaunchRecord) (*domain.Results, error) {
	runID, err := idhash.ComputeRunID(s.cfg, window.FromMs, window.ToMs, len(data))
	if err != nil {
		return nil, err
	}

	openPositions := make([]*domain.SimPosition, len(s.open))
	for i, h := range s.open {
		openPositions[i] = h.pos
	}

	closed := make([]*domain.SimPosition, len(s.closed))
	copy(closed, s.closed)
	trades := make([]*domain.Trade, len(s.trades))
	copy(trades, s.trades)

	return &domain.Results{
		RunID:              runID,
		Config:             s.cfg,
		StartMs:            data[0].TimestampMs,
		EndMs:              data[len(data)-1].TimestampMs,
		Launches:           len(data),
		PerformanceSummary: metrics.Compute(s.cfg.StartingCapitalSOL, s.capital, closed),
		Positions:          closed,
		OpenPositions:      openPositions,
		Trades:             trades,
	}, nil
}
