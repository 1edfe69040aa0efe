package storage

import (
	"context"

	"curve-lab/internal/domain"
)

// LaunchStore provides access to launches storage.
type LaunchStore interface {
	// InsertBulk adds multiple launches atomically. Fails entire batch on any duplicate mint.
	InsertBulk(ctx context.Context, launches []*domain.LaunchRecord) error

	// GetByMint retrieves a launch by mint. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.LaunchRecord, error)

	// GetByTimeRange retrieves launches within [start, end] (inclusive), ordered by timestamp ASC.
	// A zero bound is open.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.LaunchRecord, error)
}

// PriceSeriesStore provides access to price_series storage.
type PriceSeriesStore interface {
	// InsertBulk adds points for a mint. Fails entire batch on duplicate (mint, timestamp_ms).
	InsertBulk(ctx context.Context, mint string, points []domain.PricePoint) error

	// GetByMint retrieves all points for a mint, ordered by timestamp ASC.
	// Returns an empty slice if the mint has no points.
	GetByMint(ctx context.Context, mint string) ([]domain.PricePoint, error)
}

// ResultStore persists completed backtest runs.
type ResultStore interface {
	// SaveRun stores a run. Returns ErrDuplicateKey if run_id exists.
	SaveRun(ctx context.Context, r *domain.Results) error

	// GetRun retrieves a run by ID. Returns ErrNotFound if not exists.
	GetRun(ctx context.Context, runID string) (*domain.Results, error)

	// ListRunIDs returns stored run IDs, ordered by run_id ASC.
	ListRunIDs(ctx context.Context) ([]string, error)
}
