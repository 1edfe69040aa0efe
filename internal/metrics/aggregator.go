package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

// Aggregator errors.
var (
	// ErrNoTrades is returned when a run has no closed positions to aggregate.
	ErrNoTrades = errors.New("no trades available for aggregation")

	// ErrSummaryMismatch is returned when a stored summary disagrees with its positions.
	ErrSummaryMismatch = errors.New("stored summary does not match positions")
)

// summaryTolerance bounds float drift between a stored and recomputed summary.
const summaryTolerance = 1e-9

// RunSummary is one stored run in a comparison listing.
type RunSummary struct {
	RunID   string
	Mode    domain.Mode
	Summary domain.PerformanceSummary
}

// Aggregator recomputes and compares performance summaries of stored runs.
type Aggregator struct {
	resultStore storage.ResultStore
}

// NewAggregator creates a new metrics aggregator.
func NewAggregator(resultStore storage.ResultStore) *Aggregator {
	return &Aggregator{resultStore: resultStore}
}

// Recompute rebuilds a run's summary from its stored positions.
// Ending capital is replayed from the positions, not read from the stored summary.
// Returns ErrNoTrades if the run has no closed positions.
func (a *Aggregator) Recompute(ctx context.Context, runID string) (domain.PerformanceSummary, error) {
	run, err := a.resultStore.GetRun(ctx, runID)
	if err != nil {
		return domain.PerformanceSummary{}, err // propagates storage.ErrNotFound
	}
	if len(run.Positions) == 0 {
		return domain.PerformanceSummary{}, ErrNoTrades
	}

	start := run.StartingCapitalSOL
	ending := start
	for _, p := range run.Positions {
		ending += p.PnLSOL
	}
	for _, p := range run.OpenPositions {
		ending -= p.EntryAmountSOL
	}

	return Compute(start, ending, run.Positions), nil
}

// Verify checks that a stored run's summary matches a recomputation.
func (a *Aggregator) Verify(ctx context.Context, runID string) error {
	run, err := a.resultStore.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	got, err := a.Recompute(ctx, runID)
	if errors.Is(err, ErrNoTrades) {
		if run.TotalTrades != 0 {
			return fmt.Errorf("%w: %d trades stored, no closed positions", ErrSummaryMismatch, run.TotalTrades)
		}
		return nil
	}
	if err != nil {
		return err
	}

	want := run.PerformanceSummary
	checks := []struct {
		name      string
		want, got float64
	}{
		{"ending_capital_sol", want.EndingCapitalSOL, got.EndingCapitalSOL},
		{"total_pnl_sol", want.TotalPnLSOL, got.TotalPnLSOL},
		{"win_rate", want.WinRate, got.WinRate},
		{"sharpe_ratio", want.SharpeRatio, got.SharpeRatio},
		{"max_drawdown_pct", want.MaxDrawdownPct, got.MaxDrawdownPct},
	}
	for _, c := range checks {
		if math.Abs(c.want-c.got) > summaryTolerance*math.Max(1, math.Abs(c.want)) {
			return fmt.Errorf("%w: %s stored %v, recomputed %v", ErrSummaryMismatch, c.name, c.want, c.got)
		}
	}
	if want.TotalTrades != got.TotalTrades {
		return fmt.Errorf("%w: total_trades stored %d, recomputed %d", ErrSummaryMismatch, want.TotalTrades, got.TotalTrades)
	}
	return nil
}

// Summaries lists every stored run, best total return first.
// Ties are ordered by run ID.
func (a *Aggregator) Summaries(ctx context.Context) ([]RunSummary, error) {
	ids, err := a.resultStore.ListRunIDs(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RunSummary, 0, len(ids))
	for _, id := range ids {
		run, err := a.resultStore.GetRun(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load run %s: %w", id, err)
		}
		out = append(out, RunSummary{RunID: id, Mode: run.Config.Mode, Summary: run.PerformanceSummary})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Summary.TotalReturnPct != out[j].Summary.TotalReturnPct {
			return out[i].Summary.TotalReturnPct > out[j].Summary.TotalReturnPct
		}
		return out[i].RunID < out[j].RunID
	})
	return out, nil
}
