package lookup

import (
	"testing"

	"curve-lab/internal/domain"
)

func series(pairs ...float64) []domain.PricePoint {
	out := make([]domain.PricePoint, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.PricePoint{TimestampMs: int64(pairs[i]), Price: pairs[i+1]})
	}
	return out
}

func TestNearestPrice_EmptySlice(t *testing.T) {
	_, err := NearestPrice(1000, nil)
	if err != ErrNoPriceData {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestNearestPrice_ExactMatch(t *testing.T) {
	price, err := NearestPrice(2000, series(1000, 1.0, 2000, 2.0, 3000, 3.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 2.0 {
		t.Errorf("expected 2.0, got %f", price)
	}
}

func TestNearestPrice_PicksClosestEitherSide(t *testing.T) {
	points := series(1000, 1.0, 2000, 2.0, 3000, 3.0)

	// 2700 is closer to 3000 than 2000
	price, _ := NearestPrice(2700, points)
	if price != 3.0 {
		t.Errorf("expected 3.0, got %f", price)
	}

	price, _ = NearestPrice(2200, points)
	if price != 2.0 {
		t.Errorf("expected 2.0, got %f", price)
	}

	price, _ = NearestPrice(-500, points)
	if price != 1.0 {
		t.Errorf("expected 1.0 before first sample, got %f", price)
	}

	price, _ = NearestPrice(9000, points)
	if price != 3.0 {
		t.Errorf("expected 3.0 after last sample, got %f", price)
	}
}

func TestNearestPrice_TieGoesToFirst(t *testing.T) {
	price, _ := NearestPrice(1500, series(1000, 1.0, 2000, 2.0))
	if price != 1.0 {
		t.Errorf("expected earlier sample on tie, got %f", price)
	}

	// duplicate timestamps keep slice order
	price, _ = NearestPrice(2000, series(2000, 5.0, 2000, 6.0))
	if price != 5.0 {
		t.Errorf("expected first duplicate, got %f", price)
	}
}

func TestResolvePrice(t *testing.T) {
	tests := []struct {
		name         string
		launch       domain.LaunchRecord
		defaultPrice float64
		wantKind     Kind
		wantPrice    float64
	}{
		{
			name:      "resolved from series",
			launch:    domain.LaunchRecord{PriceHistory: series(0, 0.5, 60000, 0.7)},
			wantKind:  Resolved,
			wantPrice: 0.7,
		},
		{
			name:         "initial price on empty series",
			launch:       domain.LaunchRecord{InitialPrice: 0.002},
			defaultPrice: 0.000001,
			wantKind:     Default,
			wantPrice:    0.002,
		},
		{
			name:         "configured default on empty series",
			launch:       domain.LaunchRecord{},
			defaultPrice: 0.000001,
			wantKind:     Default,
			wantPrice:    0.000001,
		},
		{
			name:     "no default leaves price unresolved",
			launch:   domain.LaunchRecord{},
			wantKind: Unresolved,
		},
		{
			name:     "zero sample is unresolved",
			launch:   domain.LaunchRecord{PriceHistory: series(50000, 0)},
			wantKind: Unresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePrice(&tt.launch, 50000, tt.defaultPrice)
			if got.Kind != tt.wantKind {
				t.Fatalf("expected kind %s, got %s", tt.wantKind, got.Kind)
			}
			if got.Price != tt.wantPrice {
				t.Errorf("expected price %v, got %v", tt.wantPrice, got.Price)
			}
			if got.OK() != (tt.wantKind != Unresolved) {
				t.Errorf("OK() mismatch for kind %s", got.Kind)
			}
		})
	}
}
