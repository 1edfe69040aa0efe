package memory

import (
	"context"
	"sort"
	"sync"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

// PriceSeriesStore is an in-memory implementation of storage.PriceSeriesStore.
type PriceSeriesStore struct {
	mu   sync.RWMutex
	data map[string]map[int64]float64 // mint -> timestamp_ms -> price
}

// NewPriceSeriesStore creates a new in-memory price series store.
func NewPriceSeriesStore() *PriceSeriesStore {
	return &PriceSeriesStore{
		data: make(map[string]map[int64]float64),
	}
}

// InsertBulk adds points for a mint. Fails entire batch on duplicate.
func (s *PriceSeriesStore) InsertBulk(_ context.Context, mint string, points []domain.PricePoint) error {
	if mint == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[mint]

	// First pass: check for duplicates (existing + intra-batch)
	batch := make(map[int64]struct{}, len(points))
	for _, p := range points {
		if _, exists := existing[p.TimestampMs]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[p.TimestampMs]; exists {
			return storage.ErrDuplicateKey
		}
		batch[p.TimestampMs] = struct{}{}
	}

	// Second pass: insert all
	if existing == nil {
		existing = make(map[int64]float64, len(points))
		s.data[mint] = existing
	}
	for _, p := range points {
		existing[p.TimestampMs] = p.Price
	}
	return nil
}

// GetByMint retrieves all points for a mint, ordered by timestamp ASC.
func (s *PriceSeriesStore) GetByMint(_ context.Context, mint string) ([]domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.data[mint]
	result := make([]domain.PricePoint, 0, len(series))
	for ts, price := range series {
		result = append(result, domain.PricePoint{TimestampMs: ts, Price: price})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)
