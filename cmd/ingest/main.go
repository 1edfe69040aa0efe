package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"curve-lab/internal/config"
	"curve-lab/internal/domain"
	"curve-lab/internal/launchdata"
	"curve-lab/internal/logging"
	"curve-lab/internal/observability"
	"curve-lab/internal/storage"
	"curve-lab/internal/storage/backends"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	input := flag.String("input", "", "JSON launch file to import (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (launches)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (price series)")
	migrate := flag.Bool("migrate", true, "Apply embedded migrations before importing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *postgresDSN != "" {
		cfg.Storage.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.Storage.ClickHouseDSN = *clickhouseDSN
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *input, *migrate, logger); err != nil {
		logger.Error("ingest failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, input string, migrate bool, logger *zap.Logger) error {
	if input == "" {
		return errors.New("--input is required")
	}
	if cfg.Storage.PostgresDSN == "" {
		return errors.New("--postgres-dsn is required")
	}

	records, err := launchdata.LoadFile(input)
	if err != nil {
		return err
	}
	if err := launchdata.ValidateMints(records); err != nil {
		return err
	}
	logger.Info("launch file decoded", zap.String("path", input), zap.Int("launches", len(records)))

	b, err := backends.Open(ctx, backends.Options{
		PostgresDSN:   cfg.Storage.PostgresDSN,
		ClickHouseDSN: cfg.Storage.ClickHouseDSN,
		Migrate:       migrate,
		Metrics:       observability.NewMetrics(observability.DefaultNamespace),
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	// 1. Launch metadata, skipping mints already stored
	var fresh []*domain.LaunchRecord
	for i := range records {
		_, err := b.Launches.GetByMint(ctx, records[i].Mint)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			fresh = append(fresh, &records[i])
		case err != nil:
			return fmt.Errorf("check launch %s: %w", records[i].Mint, err)
		}
	}
	if len(fresh) > 0 {
		if err := b.Launches.InsertBulk(ctx, fresh); err != nil {
			return fmt.Errorf("insert launches: %w", err)
		}
	}
	logger.Info("launches imported",
		zap.Int("inserted", len(fresh)),
		zap.Int("skipped", len(records)-len(fresh)),
	)

	// 2. Price series
	series := launchdata.Series(records)
	if b.Series == nil {
		if len(series) > 0 {
			logger.Warn("no --clickhouse-dsn, price histories not imported", zap.Int("series", len(series)))
		}
		return nil
	}

	points := 0
	for _, s := range series {
		existing, err := b.Series.GetByMint(ctx, s.Mint)
		if err != nil {
			return fmt.Errorf("check series %s: %w", s.Mint, err)
		}
		if len(existing) > 0 {
			logger.Debug("series already stored", zap.String("mint", s.Mint))
			continue
		}
		if err := b.Series.InsertBulk(ctx, s.Mint, s.Points); err != nil {
			return fmt.Errorf("insert series %s: %w", s.Mint, err)
		}
		points += len(s.Points)
	}
	logger.Info("price series imported", zap.Int("series", len(series)), zap.Int("points", points))
	return nil
}
