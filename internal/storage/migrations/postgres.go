package migrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"curve-lab/internal/storage/postgres"
)

// RunPostgres applies the embedded PostgreSQL migrations.
// Each file runs as one multi-statement Exec.
func RunPostgres(ctx context.Context, pool *postgres.Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := load(PostgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, m := range files {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		logger.Debug("migration applied", zap.String("database", "postgres"), zap.String("file", m.name))
	}
	return nil
}
