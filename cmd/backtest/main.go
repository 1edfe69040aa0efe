package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"curve-lab/internal/backtest"
	"curve-lab/internal/config"
	"curve-lab/internal/domain"
	"curve-lab/internal/logging"
	"curve-lab/internal/observability"
	"curve-lab/internal/reporting"
	"curve-lab/internal/storage/backends"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "YAML config file")
	input := flag.String("input", "", "JSON launch file (overrides --postgres-dsn for launches)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (launches, results)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (price series)")
	sqlitePath := flag.String("sqlite-path", "", "SQLite file for results")
	migrate := flag.Bool("migrate", false, "Apply embedded migrations before running")

	// Run parameters
	mode := flag.String("mode", "", "Execution mode: optimistic, realistic, pessimistic")
	from := flag.String("from", "", "Window start (RFC 3339, inclusive)")
	to := flag.String("to", "", "Window end (RFC 3339, inclusive)")
	capital := flag.Float64("capital", 0, "Starting capital in SOL")

	// Output
	outputJSON := flag.Bool("json", false, "Output results as JSON")
	showPositions := flag.Bool("positions", false, "Print a table of closed positions")
	csvPath := flag.String("csv", "", "Write positions CSV to this path")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file
	if *postgresDSN != "" {
		cfg.Storage.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.Storage.ClickHouseDSN = *clickhouseDSN
	}
	if *sqlitePath != "" {
		cfg.Storage.SQLitePath = *sqlitePath
	}
	if *mode != "" {
		cfg.Backtest.Mode = domain.Mode(*mode)
	}
	if *capital > 0 {
		cfg.Backtest.StartingCapitalSOL = *capital
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	window, err := backtest.ParseWindow(*from, *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, window, *input, *migrate, output{
		json:      *outputJSON,
		positions: *showPositions,
		csvPath:   *csvPath,
	}, logger); err != nil {
		logger.Error("backtest failed", zap.Error(err))
		os.Exit(1)
	}
}

type output struct {
	json      bool
	positions bool
	csvPath   string
}

func run(ctx context.Context, cfg *config.Config, window backtest.Window, input string, migrate bool, out output, logger *zap.Logger) error {
	if input == "" && cfg.Storage.PostgresDSN == "" {
		return errors.New("--input or --postgres-dsn is required")
	}

	m := observability.NewMetrics(observability.DefaultNamespace)
	b, err := backends.Open(ctx, backends.Options{
		LaunchFile:    input,
		PostgresDSN:   cfg.Storage.PostgresDSN,
		ClickHouseDSN: cfg.Storage.ClickHouseDSN,
		SQLitePath:    cfg.Storage.SQLitePath,
		Migrate:       migrate,
		Metrics:       m,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	runner := backtest.NewRunner(backtest.RunnerOptions{
		LaunchStore: b.Launches,
		SeriesStore: b.Series,
		ResultStore: b.Results,
		Metrics:     m,
		Logger:      logger,
	})

	res, err := runner.Run(ctx, cfg.Backtest, window)
	if err != nil {
		return err
	}

	if out.csvPath != "" {
		if err := os.WriteFile(out.csvPath, []byte(reporting.RenderPositionsCSV(allPositions(res))), 0o644); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		logger.Info("positions written", zap.String("path", out.csvPath))
	}

	if out.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Print(reporting.RenderText(res))
	if out.positions && len(res.Positions) > 0 {
		fmt.Println()
		if err := reporting.RenderPositionsTable(os.Stdout, res.Positions); err != nil {
			return err
		}
	}
	if n := len(res.OpenPositions); n > 0 {
		fmt.Printf("\n%d position(s) still open at end of data\n", n)
	}
	return nil
}

func allPositions(res *domain.Results) []*domain.SimPosition {
	out := make([]*domain.SimPosition, 0, len(res.Positions)+len(res.OpenPositions))
	out = append(out, res.Positions...)
	return append(out, res.OpenPositions...)
}
