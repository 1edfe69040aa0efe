package memory

import (
	"context"
	"errors"
	"testing"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

func TestPriceSeriesStore_InsertBulkAndGet(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	points := []domain.PricePoint{
		{TimestampMs: 2000, Price: 1.1},
		{TimestampMs: 1000, Price: 1.0},
	}
	if err := store.InsertBulk(ctx, "m1", points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	if err := store.InsertBulk(ctx, "m1", []domain.PricePoint{{TimestampMs: 3000, Price: 1.2}}); err != nil {
		t.Fatalf("second InsertBulk failed: %v", err)
	}

	result, err := store.GetByMint(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i].TimestampMs <= result[i-1].TimestampMs {
			t.Errorf("points not ordered by timestamp: %+v", result)
		}
	}
}

func TestPriceSeriesStore_Empty(t *testing.T) {
	store := NewPriceSeriesStore()

	result, err := store.GetByMint(context.Background(), "none")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("Expected no points, got %d", len(result))
	}
}

func TestPriceSeriesStore_DuplicateKey(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "m1", []domain.PricePoint{{TimestampMs: 1000, Price: 1}}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, "m1", []domain.PricePoint{{TimestampMs: 1000, Price: 2}})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same timestamp on another mint is fine
	if err := store.InsertBulk(ctx, "m2", []domain.PricePoint{{TimestampMs: 1000, Price: 2}}); err != nil {
		t.Errorf("Insert for other mint failed: %v", err)
	}
}

func TestPriceSeriesStore_IntraBatchDuplicate(t *testing.T) {
	store := NewPriceSeriesStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, "m1", []domain.PricePoint{
		{TimestampMs: 1000, Price: 1.0},
		{TimestampMs: 1000, Price: 1.1},
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}

	result, _ := store.GetByMint(ctx, "m1")
	if len(result) != 0 {
		t.Errorf("Expected 0 points (rollback), got %d", len(result))
	}
}

func TestPriceSeriesStore_InvalidInput(t *testing.T) {
	store := NewPriceSeriesStore()

	err := store.InsertBulk(context.Background(), "", []domain.PricePoint{{TimestampMs: 1}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
