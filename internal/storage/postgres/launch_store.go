package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

// LaunchStore implements storage.LaunchStore using PostgreSQL.
// Only launch metadata is stored; PriceHistory is always empty on read.
type LaunchStore struct {
	pool *Pool
}

// NewLaunchStore creates a new LaunchStore.
func NewLaunchStore(pool *Pool) *LaunchStore {
	return &LaunchStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LaunchStore = (*LaunchStore)(nil)

const launchColumns = `
	mint, symbol, timestamp_ms,
	initial_liquidity_sol, initial_market_cap_sol, initial_price,
	outcome, peak_price, time_to_peak_minutes
`

// InsertBulk adds multiple launches atomically. Fails entire batch on any duplicate.
func (s *LaunchStore) InsertBulk(ctx context.Context, launches []*domain.LaunchRecord) error {
	if len(launches) == 0 {
		return nil
	}
	for _, l := range launches {
		if l == nil || l.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO launches (` + launchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, l := range launches {
		_, err := tx.Exec(ctx, query,
			l.Mint, l.Symbol, l.TimestampMs,
			l.InitialLiquiditySOL, l.InitialMarketCapSOL, l.InitialPrice,
			string(l.Outcome), l.PeakPrice, l.TimeToPeakMinutes,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert launch in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByMint retrieves a launch by mint. Returns ErrNotFound if not exists.
func (s *LaunchStore) GetByMint(ctx context.Context, mint string) (*domain.LaunchRecord, error) {
	query := `SELECT ` + launchColumns + ` FROM launches WHERE mint = $1`

	l, err := scanLaunch(s.pool.QueryRow(ctx, query, mint))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get launch by mint: %w", err)
	}
	return l, nil
}

// GetByTimeRange retrieves launches within [start, end] (inclusive).
// A zero bound is open.
func (s *LaunchStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.LaunchRecord, error) {
	query := `
		SELECT ` + launchColumns + `
		FROM launches
		WHERE ($1::BIGINT = 0 OR timestamp_ms >= $1::BIGINT)
		  AND ($2::BIGINT = 0 OR timestamp_ms <= $2::BIGINT)
		ORDER BY timestamp_ms ASC, mint ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get launches by time range: %w", err)
	}
	defer rows.Close()

	var result []*domain.LaunchRecord
	for rows.Next() {
		l, err := scanLaunch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return result, nil
}

func scanLaunch(row pgx.Row) (*domain.LaunchRecord, error) {
	var l domain.LaunchRecord
	var outcome string
	err := row.Scan(
		&l.Mint, &l.Symbol, &l.TimestampMs,
		&l.InitialLiquiditySOL, &l.InitialMarketCapSOL, &l.InitialPrice,
		&outcome, &l.PeakPrice, &l.TimeToPeakMinutes,
	)
	if err != nil {
		return nil, err
	}
	l.Outcome = domain.Outcome(outcome)
	return &l, nil
}
