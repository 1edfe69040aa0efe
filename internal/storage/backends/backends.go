// Package backends opens the storage collaborators selected by configuration.
package backends

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"curve-lab/internal/domain"
	"curve-lab/internal/launchdata"
	"curve-lab/internal/observability"
	"curve-lab/internal/storage"
	chstore "curve-lab/internal/storage/clickhouse"
	"curve-lab/internal/storage/memory"
	"curve-lab/internal/storage/migrations"
	pgstore "curve-lab/internal/storage/postgres"
	"curve-lab/internal/storage/sqlite"
)

// Database labels used in query metrics.
const (
	dbPostgres   = "postgres"
	dbClickHouse = "clickhouse"
	dbSQLite     = "sqlite"
)

// Options selects backends. Empty DSNs fall back to memory stores.
type Options struct {
	// LaunchFile loads launches from a JSON file into a memory store.
	// It takes precedence over PostgresDSN for launches.
	LaunchFile string

	PostgresDSN   string // launches and results
	ClickHouseDSN string // price series
	SQLitePath    string // results, preferred over PostgreSQL

	Migrate bool // apply embedded migrations on open
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// Backends holds the opened stores. Series is nil without ClickHouse.
type Backends struct {
	Launches storage.LaunchStore
	Series   storage.PriceSeriesStore
	Results  storage.ResultStore

	closers []func()
}

// Open connects every configured backend. On error, anything already
// opened is closed.
func Open(ctx context.Context, opts Options) (_ *Backends, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Backends{}
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	var pool *pgstore.Pool
	if opts.PostgresDSN != "" {
		pool, err = pgstore.NewPool(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		if opts.Migrate {
			if err = migrations.RunPostgres(ctx, pool, logger); err != nil {
				return nil, err
			}
		}
		logger.Info("postgres connected")
	}

	switch {
	case opts.LaunchFile != "":
		b.Launches, err = loadLaunchFile(ctx, opts.LaunchFile)
		if err != nil {
			return nil, err
		}
		logger.Info("launch file loaded", zap.String("path", opts.LaunchFile))
	case pool != nil:
		b.Launches = instrumentLaunches(pgstore.NewLaunchStore(pool), dbPostgres, opts.Metrics)
	default:
		b.Launches = memory.NewLaunchStore()
	}

	if opts.ClickHouseDSN != "" {
		var conn *chstore.Conn
		if opts.Migrate {
			conn, err = migrations.RunClickHouse(ctx, opts.ClickHouseDSN, logger)
		} else {
			conn, err = chstore.NewConn(ctx, opts.ClickHouseDSN)
		}
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = conn.Close() })
		b.Series = instrumentSeries(chstore.NewPriceSeriesStore(conn), dbClickHouse, opts.Metrics)
		logger.Info("clickhouse connected")
	}

	switch {
	case opts.SQLitePath != "":
		var rs *sqlite.ResultStore
		rs, err = sqlite.NewResultStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = rs.Close() })
		b.Results = instrumentResults(rs, dbSQLite, opts.Metrics)
	case pool != nil:
		b.Results = instrumentResults(pgstore.NewResultStore(pool), dbPostgres, opts.Metrics)
	default:
		b.Results = memory.NewResultStore()
	}

	return b, nil
}

// Close releases connections in reverse open order.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

func loadLaunchFile(ctx context.Context, path string) (storage.LaunchStore, error) {
	records, err := launchdata.LoadFile(path)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*domain.LaunchRecord, len(records))
	for i := range records {
		ptrs[i] = &records[i]
	}

	store := memory.NewLaunchStore()
	if err := store.InsertBulk(ctx, ptrs); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return store, nil
}

func instrumentLaunches(s storage.LaunchStore, db string, m *observability.Metrics) storage.LaunchStore {
	if m == nil {
		return s
	}
	return &launchStore{next: s, db: db, metrics: m}
}

func instrumentSeries(s storage.PriceSeriesStore, db string, m *observability.Metrics) storage.PriceSeriesStore {
	if m == nil {
		return s
	}
	return &seriesStore{next: s, db: db, metrics: m}
}

func instrumentResults(s storage.ResultStore, db string, m *observability.Metrics) storage.ResultStore {
	if m == nil {
		return s
	}
	return &resultStore{next: s, db: db, metrics: m}
}
