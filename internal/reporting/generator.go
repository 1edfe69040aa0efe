package reporting

import (
	"context"
	"errors"
	"time"

	"curve-lab/internal/metrics"
	"curve-lab/internal/storage"
)

// ErrNoRuns is returned when the result store holds no runs.
var ErrNoRuns = errors.New("no stored runs to report")

// Generator produces comparison reports from stored runs.
type Generator struct {
	resultStore storage.ResultStore
	aggregator  *metrics.Aggregator
	now         func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(resultStore storage.ResultStore) *Generator {
	return &Generator{
		resultStore: resultStore,
		aggregator:  metrics.NewAggregator(resultStore),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate ranks stored runs and verifies each stored summary
// against its positions.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	summaries, err := g.aggregator.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, ErrNoRuns
	}

	rows := make([]RunRow, 0, len(summaries))
	for _, s := range summaries {
		row := RunRow{RunSummary: s, Verified: true}
		if err := g.aggregator.Verify(ctx, s.RunID); err != nil {
			if !errors.Is(err, metrics.ErrSummaryMismatch) {
				return nil, err
			}
			row.Verified = false
			row.VerifyError = err.Error()
		}
		rows = append(rows, row)
	}

	best, err := g.resultStore.GetRun(ctx, rows[0].RunID)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt: g.now(),
		Runs:        rows,
		Best:        best,
	}, nil
}
