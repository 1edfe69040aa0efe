package memory

import (
	"context"
	"errors"
	"testing"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

func sampleResults(runID string) *domain.Results {
	return &domain.Results{
		RunID:    runID,
		Config:   domain.DefaultBacktestConfig(),
		Launches: 2,
		PerformanceSummary: domain.PerformanceSummary{
			StartingCapitalSOL: 10,
			EndingCapitalSOL:   10.05,
			TotalTrades:        1,
		},
		Positions: []*domain.SimPosition{{PositionID: "p1", Mint: "m1", Status: domain.PositionClosed, PnLSOL: 0.05}},
		Trades: []*domain.Trade{
			{PositionID: "p1", Side: domain.SideBuy, Mint: "m1"},
			{PositionID: "p1", Side: domain.SideSell, Mint: "m1"},
		},
	}
}

func TestResultStore_SaveAndGet(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	if err := store.SaveRun(ctx, sampleResults("run-b")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.SaveRun(ctx, sampleResults("run-a")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, err := store.GetRun(ctx, "run-b")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.TotalTrades != 1 || len(got.Positions) != 1 || len(got.Trades) != 2 {
		t.Errorf("unexpected run: %+v", got)
	}

	got.Positions[0].PnLSOL = -1
	again, _ := store.GetRun(ctx, "run-b")
	if again.Positions[0].PnLSOL != 0.05 {
		t.Errorf("store was mutated through returned copy")
	}

	ids, err := store.ListRunIDs(ctx)
	if err != nil {
		t.Fatalf("ListRunIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "run-a" || ids[1] != "run-b" {
		t.Errorf("unexpected ids: %v", ids)
	}
}

func TestResultStore_Errors(t *testing.T) {
	store := NewResultStore()
	ctx := context.Background()

	if err := store.SaveRun(ctx, sampleResults("run")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.SaveRun(ctx, sampleResults("run")); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := store.SaveRun(ctx, &domain.Results{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.GetRun(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
