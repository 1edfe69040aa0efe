package backends

import (
	"context"
	"time"

	"curve-lab/internal/domain"
	"curve-lab/internal/observability"
	"curve-lab/internal/storage"
)

var (
	_ storage.LaunchStore      = (*launchStore)(nil)
	_ storage.PriceSeriesStore = (*seriesStore)(nil)
	_ storage.ResultStore      = (*resultStore)(nil)
)

// launchStore records query metrics around a LaunchStore.
type launchStore struct {
	next    storage.LaunchStore
	db      string
	metrics *observability.Metrics
}

func (s *launchStore) InsertBulk(ctx context.Context, launches []*domain.LaunchRecord) error {
	start := time.Now()
	err := s.next.InsertBulk(ctx, launches)
	s.metrics.RecordDBQuery(s.db, "insert_launches", time.Since(start), err)
	return err
}

func (s *launchStore) GetByMint(ctx context.Context, mint string) (*domain.LaunchRecord, error) {
	start := time.Now()
	l, err := s.next.GetByMint(ctx, mint)
	s.metrics.RecordDBQuery(s.db, "get_launch", time.Since(start), err)
	return l, err
}

func (s *launchStore) GetByTimeRange(ctx context.Context, from, to int64) ([]*domain.LaunchRecord, error) {
	start := time.Now()
	ls, err := s.next.GetByTimeRange(ctx, from, to)
	s.metrics.RecordDBQuery(s.db, "get_launches_range", time.Since(start), err)
	return ls, err
}

// seriesStore records query metrics around a PriceSeriesStore.
type seriesStore struct {
	next    storage.PriceSeriesStore
	db      string
	metrics *observability.Metrics
}

func (s *seriesStore) InsertBulk(ctx context.Context, mint string, points []domain.PricePoint) error {
	start := time.Now()
	err := s.next.InsertBulk(ctx, mint, points)
	s.metrics.RecordDBQuery(s.db, "insert_price_series", time.Since(start), err)
	return err
}

func (s *seriesStore) GetByMint(ctx context.Context, mint string) ([]domain.PricePoint, error) {
	start := time.Now()
	pts, err := s.next.GetByMint(ctx, mint)
	s.metrics.RecordDBQuery(s.db, "get_price_series", time.Since(start), err)
	return pts, err
}

// resultStore records query metrics around a ResultStore.
type resultStore struct {
	next    storage.ResultStore
	db      string
	metrics *observability.Metrics
}

func (s *resultStore) SaveRun(ctx context.Context, r *domain.Results) error {
	start := time.Now()
	err := s.next.SaveRun(ctx, r)
	s.metrics.RecordDBQuery(s.db, "save_run", time.Since(start), err)
	return err
}

func (s *resultStore) GetRun(ctx context.Context, runID string) (*domain.Results, error) {
	start := time.Now()
	r, err := s.next.GetRun(ctx, runID)
	s.metrics.RecordDBQuery(s.db, "get_run", time.Since(start), err)
	return r, err
}

func (s *resultStore) ListRunIDs(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.next.ListRunIDs(ctx)
	s.metrics.RecordDBQuery(s.db, "list_runs", time.Since(start), err)
	return ids, err
}
