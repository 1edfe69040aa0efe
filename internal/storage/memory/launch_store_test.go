package memory

import (
	"context"
	"errors"
	"testing"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

func TestLaunchStore_InsertBulkAndGet(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	launches := []*domain.LaunchRecord{
		{Mint: "m1", Symbol: "ONE", TimestampMs: 1000, InitialLiquiditySOL: 10,
			PriceHistory: []domain.PricePoint{{TimestampMs: 1000, Price: 1e-6}}},
		{Mint: "m2", Symbol: "TWO", TimestampMs: 2000, InitialLiquiditySOL: 5},
	}

	if err := store.InsertBulk(ctx, launches); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByMint(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if got.Symbol != "ONE" || len(got.PriceHistory) != 1 {
		t.Errorf("unexpected launch: %+v", got)
	}

	// Mutating the returned copy must not leak into the store
	got.PriceHistory[0].Price = 42
	again, _ := store.GetByMint(ctx, "m1")
	if again.PriceHistory[0].Price != 1e-6 {
		t.Errorf("store was mutated through returned copy")
	}
}

func TestLaunchStore_NotFound(t *testing.T) {
	store := NewLaunchStore()

	_, err := store.GetByMint(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLaunchStore_DuplicateKey(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.LaunchRecord{{Mint: "m1"}}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.LaunchRecord{{Mint: "m2"}, {Mint: "m1"}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Verify batch was rejected as a whole
	if _, err := store.GetByMint(ctx, "m2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected m2 to be rolled back, got %v", err)
	}
}

func TestLaunchStore_InvalidInput(t *testing.T) {
	store := NewLaunchStore()

	err := store.InsertBulk(context.Background(), []*domain.LaunchRecord{{Mint: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestLaunchStore_GetByTimeRange(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []*domain.LaunchRecord{
		{Mint: "c", TimestampMs: 3000},
		{Mint: "b", TimestampMs: 2000},
		{Mint: "a", TimestampMs: 2000},
		{Mint: "d", TimestampMs: 4000},
	})

	result, err := store.GetByTimeRange(ctx, 2000, 3000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(result) != len(want) {
		t.Fatalf("Expected %d launches, got %d", len(want), len(result))
	}
	for i, mint := range want {
		if result[i].Mint != mint {
			t.Errorf("position %d: expected %s, got %s", i, mint, result[i].Mint)
		}
	}

	all, _ := store.GetByTimeRange(ctx, 0, 0)
	if len(all) != 4 {
		t.Errorf("Expected open range to return 4 launches, got %d", len(all))
	}
}
