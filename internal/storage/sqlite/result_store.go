// Package sqlite keeps backtest runs in a local SQLite file for single-user setups.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

const schema = `
-- One row per run; the full result is kept as JSON
CREATE TABLE IF NOT EXISTS backtest_runs (
    run_id           TEXT PRIMARY KEY,
    created_at       DATETIME NOT NULL,
    mode             TEXT     NOT NULL,
    launches         INTEGER  NOT NULL,
    total_trades     INTEGER  NOT NULL,
    total_return_pct REAL     NOT NULL,
    sharpe_ratio     REAL     NOT NULL,
    payload          TEXT     NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON backtest_runs(created_at DESC);
`

// ResultStore implements storage.ResultStore on SQLite (pure Go, no cgo).
type ResultStore struct {
	db *sql.DB
}

// Compile-time interface check.
var _ storage.ResultStore = (*ResultStore)(nil)

// NewResultStore opens (or creates) the database at path and applies the schema.
// ":memory:" gives a throwaway store.
func NewResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

// Close closes the database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a run. Returns ErrDuplicateKey if run_id exists.
func (s *ResultStore) SaveRun(ctx context.Context, r *domain.Results) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO backtest_runs
			(run_id, created_at, mode, launches, total_trades, total_return_pct, sharpe_ratio, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		r.RunID, time.Now().UTC(), string(r.Config.Mode), r.Launches,
		r.TotalTrades, r.TotalReturnPct, r.SharpeRatio, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if n == 0 {
		return storage.ErrDuplicateKey
	}
	return nil
}

// GetRun retrieves a run by ID. Returns ErrNotFound if not exists.
func (s *ResultStore) GetRun(ctx context.Context, runID string) (*domain.Results, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM backtest_runs WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var r domain.Results
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", runID, err)
	}
	return &r, nil
}

// ListRunIDs returns stored run IDs, ordered by run_id ASC.
func (s *ResultStore) ListRunIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id FROM backtest_runs ORDER BY run_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
