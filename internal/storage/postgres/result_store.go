package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"curve-lab/internal/domain"
	"curve-lab/internal/storage"
)

// ResultStore implements storage.ResultStore using PostgreSQL.
type ResultStore struct {
	pool *Pool
}

// NewResultStore creates a new ResultStore.
func NewResultStore(pool *Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ResultStore = (*ResultStore)(nil)

const positionColumns = `
	position_id, mint, symbol, status,
	entry_time_ms, entry_price, entry_amount_sol, entry_amount_tokens, entry_price_source,
	peak_price,
	exit_time_ms, exit_price, exit_amount_sol, exit_reason, exit_detail, exit_price_source,
	pnl_sol, pnl_pct, hold_time_minutes
`

var tradeColumns = []string{
	"run_id", "seq", "position_id", "timestamp_ms", "side", "mint", "symbol",
	"price", "amount_sol", "amount_tokens", "reason",
}

// SaveRun stores a run with its positions and trade log in one transaction.
// Returns ErrDuplicateKey if run_id exists.
func (s *ResultStore) SaveRun(ctx context.Context, r *domain.Results) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	config, err := json.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	summary, err := json.Marshal(r.PerformanceSummary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO backtest_runs (run_id, config, summary, start_ms, end_ms, launches)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.RunID, config, summary, r.StartMs, r.EndMs, r.Launches)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}

	// Closed positions first, then open ones; seq preserves both orders.
	positions := append(append([]*domain.SimPosition{}, r.Positions...), r.OpenPositions...)
	query := `INSERT INTO backtest_positions (run_id, seq, ` + positionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	for i, p := range positions {
		_, err := tx.Exec(ctx, query,
			r.RunID, i, p.PositionID, p.Mint, p.Symbol, string(p.Status),
			p.EntryTimeMs, p.EntryPrice, p.EntryAmountSOL, p.EntryAmountTokens, string(p.EntryPriceSource),
			p.PeakPrice,
			p.ExitTimeMs, p.ExitPrice, p.ExitAmountSOL, string(p.ExitReason), p.ExitDetail, string(p.ExitPriceSource),
			p.PnLSOL, p.PnLPct, p.HoldTimeMinutes,
		)
		if err != nil {
			return fmt.Errorf("insert position: %w", err)
		}
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"backtest_trades"}, tradeColumns,
		pgx.CopyFromSlice(len(r.Trades), func(i int) ([]any, error) {
			t := r.Trades[i]
			return []any{
				r.RunID, i, t.PositionID, t.TimestampMs, string(t.Side), t.Mint, t.Symbol,
				t.Price, t.AmountSOL, t.AmountTokens, t.Reason,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy trades: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns ErrNotFound if not exists.
func (s *ResultStore) GetRun(ctx context.Context, runID string) (*domain.Results, error) {
	r := &domain.Results{RunID: runID}
	var config, summary []byte

	err := s.pool.QueryRow(ctx, `
		SELECT config, summary, start_ms, end_ms, launches
		FROM backtest_runs
		WHERE run_id = $1
	`, runID).Scan(&config, &summary, &r.StartMs, &r.EndMs, &r.Launches)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	if err := json.Unmarshal(config, &r.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := json.Unmarshal(summary, &r.PerformanceSummary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}

	if err := s.loadPositions(ctx, r); err != nil {
		return nil, err
	}
	if err := s.loadTrades(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRunIDs returns stored run IDs, ordered by run_id ASC.
func (s *ResultStore) ListRunIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT run_id FROM backtest_runs ORDER BY run_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect run ids: %w", err)
	}
	return ids, nil
}

func (s *ResultStore) loadPositions(ctx context.Context, r *domain.Results) error {
	rows, err := s.pool.Query(ctx, `
		SELECT `+positionColumns+`
		FROM backtest_positions
		WHERE run_id = $1
		ORDER BY seq ASC
	`, r.RunID)
	if err != nil {
		return fmt.Errorf("get positions: %w", err)
	}
	defer rows.Close()

	r.Positions = []*domain.SimPosition{}
	r.OpenPositions = []*domain.SimPosition{}
	for rows.Next() {
		var p domain.SimPosition
		var status, entrySource, exitReason, exitSource string
		err := rows.Scan(
			&p.PositionID, &p.Mint, &p.Symbol, &status,
			&p.EntryTimeMs, &p.EntryPrice, &p.EntryAmountSOL, &p.EntryAmountTokens, &entrySource,
			&p.PeakPrice,
			&p.ExitTimeMs, &p.ExitPrice, &p.ExitAmountSOL, &exitReason, &p.ExitDetail, &exitSource,
			&p.PnLSOL, &p.PnLPct, &p.HoldTimeMinutes,
		)
		if err != nil {
			return fmt.Errorf("scan position: %w", err)
		}
		p.Status = domain.PositionStatus(status)
		p.EntryPriceSource = domain.PriceSource(entrySource)
		p.ExitReason = domain.ExitReason(exitReason)
		p.ExitPriceSource = domain.PriceSource(exitSource)

		if p.IsClosed() {
			r.Positions = append(r.Positions, &p)
		} else {
			r.OpenPositions = append(r.OpenPositions, &p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate positions: %w", err)
	}
	return nil
}

func (s *ResultStore) loadTrades(ctx context.Context, r *domain.Results) error {
	rows, err := s.pool.Query(ctx, `
		SELECT position_id, timestamp_ms, side, mint, symbol, price, amount_sol, amount_tokens, reason
		FROM backtest_trades
		WHERE run_id = $1
		ORDER BY seq ASC
	`, r.RunID)
	if err != nil {
		return fmt.Errorf("get trades: %w", err)
	}
	defer rows.Close()

	r.Trades = []*domain.Trade{}
	for rows.Next() {
		var t domain.Trade
		var side string
		err := rows.Scan(
			&t.PositionID, &t.TimestampMs, &side, &t.Mint, &t.Symbol,
			&t.Price, &t.AmountSOL, &t.AmountTokens, &t.Reason,
		)
		if err != nil {
			return fmt.Errorf("scan trade: %w", err)
		}
		t.Side = domain.Side(side)
		r.Trades = append(r.Trades, &t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate trades: %w", err)
	}
	return nil
}
