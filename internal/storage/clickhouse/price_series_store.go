package clickhouse

import (
	"context"
	"fmt"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

// PriceSeriesStore implements storage.PriceSeriesStore using ClickHouse.
type PriceSeriesStore struct {
	conn *Conn
}

// NewPriceSeriesStore creates a new PriceSeriesStore.
func NewPriceSeriesStore(conn *Conn) *PriceSeriesStore {
	return &PriceSeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)

// InsertBulk adds points for a mint. Fails entire batch on duplicate (mint, timestamp_ms).
// MergeTree does not enforce keys, so duplicates are checked before the batch is sent.
func (s *PriceSeriesStore) InsertBulk(ctx context.Context, mint string, points []domain.PricePoint) error {
	if mint == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(points))
	for _, p := range points {
		if _, exists := seen[p.TimestampMs]; exists {
			return storage.ErrDuplicateKey
		}
		seen[p.TimestampMs] = struct{}{}
	}

	existing, err := s.existingTimestamps(ctx, mint)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	for _, p := range points {
		if _, exists := existing[p.TimestampMs]; exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_series (mint, timestamp_ms, price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(mint, p.TimestampMs, p.Price); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMint retrieves all points for a mint, ordered by timestamp ASC.
func (s *PriceSeriesStore) GetByMint(ctx context.Context, mint string) ([]domain.PricePoint, error) {
	query := `
		SELECT timestamp_ms, price
		FROM price_series
		WHERE mint = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query by mint: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// existingTimestamps returns the timestamps already stored for a mint.
func (s *PriceSeriesStore) existingTimestamps(ctx context.Context, mint string) (map[int64]struct{}, error) {
	rows, err := s.conn.Query(ctx, `SELECT timestamp_ms FROM price_series WHERE mint = ?`, mint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]struct{})
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out[ts] = struct{}{}
	}
	return out, rows.Err()
}

// scanPricePoints scans multiple rows.
func scanPricePoints(rows chRows) ([]domain.PricePoint, error) {
	points := []domain.PricePoint{}

	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.TimestampMs, &p.Price); err != nil {
			return nil, fmt.Errorf("scan price series row: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price series rows: %w", err)
	}

	return points, nil
}
