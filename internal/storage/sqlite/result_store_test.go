package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
	"curve-lab/internal/storage/sqlite"
)

func makeResults(runID string) *domain.Results {
	return &domain.Results{
		RunID:    runID,
		Config:   domain.DefaultBacktestConfig(),
		StartMs:  1000,
		EndMs:    9000,
		Launches: 4,
		PerformanceSummary: domain.PerformanceSummary{
			StartingCapitalSOL: 10,
			EndingCapitalSOL:   10.1,
			TotalPnLSOL:        0.1,
			TotalReturnPct:     1,
			TotalTrades:        1,
			WinningTrades:      1,
			WinRate:            100,
		},
		Positions: []*domain.SimPosition{{
			PositionID: "p1", Mint: "m1", Symbol: "ONE", Status: domain.PositionClosed,
			EntryPrice: 1e-7, EntryAmountSOL: 0.1, ExitPrice: 2e-7, ExitAmountSOL: 0.2,
			ExitReason: domain.ExitReasonTakeProfit, PnLSOL: 0.1, PnLPct: 100,
		}},
		OpenPositions: []*domain.SimPosition{},
		Trades: []*domain.Trade{
			{PositionID: "p1", Side: domain.SideBuy, Mint: "m1", Reason: domain.EntryReason},
			{PositionID: "p1", Side: domain.SideSell, Mint: "m1", Reason: "Take profit at 100.0%"},
		},
	}
}

func TestResultStore_SaveAndGet(t *testing.T) {
	db, err := sqlite.NewResultStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	run := makeResults("run-1")
	require.NoError(t, db.SaveRun(ctx, run))

	got, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestResultStore_Duplicate(t *testing.T) {
	db, err := sqlite.NewResultStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveRun(ctx, makeResults("run-1")))
	assert.ErrorIs(t, db.SaveRun(ctx, makeResults("run-1")), storage.ErrDuplicateKey)
	assert.ErrorIs(t, db.SaveRun(ctx, &domain.Results{}), storage.ErrInvalidInput)
}

func TestResultStore_NotFound(t *testing.T) {
	db, err := sqlite.NewResultStore(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestResultStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	db, err := sqlite.NewResultStore(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveRun(ctx, makeResults("run-b")))
	require.NoError(t, db.SaveRun(ctx, makeResults("run-a")))
	require.NoError(t, db.Close())

	db, err = sqlite.NewResultStore(path)
	require.NoError(t, err)
	defer db.Close()

	ids, err := db.ListRunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, ids)
}
