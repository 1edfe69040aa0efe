package memory

import (
	"context"
	"sort"
	"sync"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

// LaunchStore is an in-memory implementation of storage.LaunchStore.
type LaunchStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LaunchRecord // keyed by mint
}

// NewLaunchStore creates a new in-memory launch store.
func NewLaunchStore() *LaunchStore {
	return &LaunchStore{
		data: make(map[string]*domain.LaunchRecord),
	}
}

// InsertBulk adds multiple launches. Fails entire batch on duplicate.
func (s *LaunchStore) InsertBulk(_ context.Context, launches []*domain.LaunchRecord) error {
	if len(launches) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(launches))
	for _, l := range launches {
		if l == nil || l.Mint == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[l.Mint]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batch[l.Mint]; exists {
			return storage.ErrDuplicateKey
		}
		batch[l.Mint] = struct{}{}
	}

	for _, l := range launches {
		s.data[l.Mint] = copyLaunch(l)
	}
	return nil
}

// GetByMint retrieves a launch by mint. Returns ErrNotFound if not exists.
func (s *LaunchStore) GetByMint(_ context.Context, mint string) (*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.data[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyLaunch(l), nil
}

// GetByTimeRange retrieves launches within [start, end] (inclusive).
func (s *LaunchStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LaunchRecord
	for _, l := range s.data {
		if start != 0 && l.TimestampMs < start {
			continue
		}
		if end != 0 && l.TimestampMs > end {
			continue
		}
		result = append(result, copyLaunch(l))
	}

	// Sort by timestamp ASC, mint breaks ties
	sort.Slice(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].Mint < result[j].Mint
	})

	return result, nil
}

func copyLaunch(l *domain.LaunchRecord) *domain.LaunchRecord {
	c := *l
	c.PriceHistory = append([]domain.PricePoint(nil), l.PriceHistory...)
	return &c
}

// Verify interface compliance at compile time.
var _ storage.LaunchStore = (*LaunchStore)(nil)
