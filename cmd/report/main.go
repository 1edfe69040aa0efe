package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"curve-lab/internal/config"
	"curve-lab/internal/logging"
	"curve-lab/internal/metrics"
	"curve-lab/internal/reporting"
	"curve-lab/internal/storage/backends"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (stored runs)")
	sqlitePath := flag.String("sqlite-path", "", "SQLite file with stored runs")
	runID := flag.String("run-id", "", "Print the text report of a single run")
	verify := flag.Bool("verify", false, "With --run-id, fail if the stored summary does not match its positions")
	output := flag.String("output", "", "Write the comparison report to this file instead of stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *postgresDSN != "" {
		cfg.Storage.PostgresDSN = *postgresDSN
	}
	if *sqlitePath != "" {
		cfg.Storage.SQLitePath = *sqlitePath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, *runID, *verify, *output, logger); err != nil {
		logger.Error("report failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, runID string, verify bool, output string, logger *zap.Logger) error {
	if cfg.Storage.PostgresDSN == "" && cfg.Storage.SQLitePath == "" {
		return errors.New("--postgres-dsn or --sqlite-path is required")
	}

	b, err := backends.Open(ctx, backends.Options{
		PostgresDSN: cfg.Storage.PostgresDSN,
		SQLitePath:  cfg.Storage.SQLitePath,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	if runID != "" {
		res, err := b.Results.GetRun(ctx, runID)
		if err != nil {
			return fmt.Errorf("load run %s: %w", runID, err)
		}
		if verify {
			if err := metrics.NewAggregator(b.Results).Verify(ctx, runID); err != nil {
				return err
			}
			logger.Info("stored summary verified", zap.String("run_id", runID))
		}
		fmt.Print(reporting.RenderText(res))
		return nil
	}

	report, err := reporting.NewGenerator(b.Results).Generate(ctx)
	if err != nil {
		return err
	}
	md := reporting.RenderMarkdown(report)

	if output == "" {
		fmt.Print(md)
		return nil
	}
	if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("report written", zap.String("path", output), zap.Int("runs", len(report.Runs)))
	return nil
}
