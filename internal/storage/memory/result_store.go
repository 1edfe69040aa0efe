package memory

import (
	"context"
	"sort"
	"sync"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

// ResultStore is an in-memory implementation of storage.ResultStore.
type ResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Results // keyed by run_id
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		data: make(map[string]*domain.Results),
	}
}

// SaveRun stores a run. Returns ErrDuplicateKey if run_id exists.
func (s *ResultStore) SaveRun(_ context.Context, r *domain.Results) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[r.RunID] = copyResults(r)
	return nil
}

// GetRun retrieves a run by ID. Returns ErrNotFound if not exists.
func (s *ResultStore) GetRun(_ context.Context, runID string) (*domain.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyResults(r), nil
}

// ListRunIDs returns stored run IDs, ordered by run_id ASC.
func (s *ResultStore) ListRunIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// copyResults copies the run down to positions and trades.
func copyResults(r *domain.Results) *domain.Results {
	c := *r
	c.Positions = copyPositions(r.Positions)
	c.OpenPositions = copyPositions(r.OpenPositions)
	c.Trades = make([]*domain.Trade, len(r.Trades))
	for i, t := range r.Trades {
		tc := *t
		c.Trades[i] = &tc
	}
	return &c
}

func copyPositions(in []*domain.SimPosition) []*domain.SimPosition {
	out := make([]*domain.SimPosition, len(in))
	for i, p := range in {
		pc := *p
		out[i] = &pc
	}
	return out
}

var _ storage.ResultStore = (*ResultStore)(nil)
