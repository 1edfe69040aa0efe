package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"curve-lab/internal/backtest"
	"curve-lab/internal/config"
	"curve-lab/internal/launchdata"
	"curve-lab/internal/logging"
	"curve-lab/internal/observability"
	"curve-lab/internal/optimize"
	"curve-lab/internal/reporting"
	"curve-lab/internal/storage/backends"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (grid under optimize.grid)")
	input := flag.String("input", "", "JSON launch file")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (launches)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (price series)")
	from := flag.String("from", "", "Window start, ISO 8601 (inclusive)")
	to := flag.String("to", "", "Window end, ISO 8601 (inclusive)")

	objective := flag.String("objective", "", "Ranking objective: sharpe, return, profit_factor")
	workers := flag.Int("workers", 0, "Concurrent runs (0 = one per CPU)")
	tp := flag.String("tp", "", "Take profit values, comma separated (e.g. 50,100,200)")
	sl := flag.String("sl", "", "Stop loss values, comma separated")
	trail := flag.String("trail", "", "Trailing stop values, comma separated")
	hold := flag.String("hold", "", "Max hold minutes, comma separated")
	buy := flag.String("buy", "", "Buy amounts in SOL, comma separated")
	top := flag.Int("top", 10, "Rows to print (0 = all)")
	metricsAddr := flag.String("metrics-addr", "", "Serve prometheus metrics on this address (e.g. :9102)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(cfg, *postgresDSN, *clickhouseDSN, *objective, *workers, *metricsAddr,
		map[string]string{"tp": *tp, "sl": *sl, "trail": *trail, "hold": *hold, "buy": *buy}); err != nil {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *input, window, *top, logger); err != nil {
		logger.Error("grid search failed", zap.Error(err))
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, pgDSN, chDSN, objective string, workers int, metricsAddr string, axes map[string]string) error {
	if pgDSN != "" {
		cfg.Storage.PostgresDSN = pgDSN
	}
	if chDSN != "" {
		cfg.Storage.ClickHouseDSN = chDSN
	}
	if objective != "" {
		cfg.Optimize.Objective = optimize.Objective(objective)
	}
	if workers > 0 {
		cfg.Optimize.Workers = workers
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	targets := map[string]*[]float64{
		"tp":    &cfg.Optimize.Grid.TakeProfitPct,
		"sl":    &cfg.Optimize.Grid.StopLossPct,
		"trail": &cfg.Optimize.Grid.TrailingStopPct,
		"hold":  &cfg.Optimize.Grid.MaxHoldMinutes,
		"buy":   &cfg.Optimize.Grid.BuyAmountSOL,
	}
	for name, raw := range axes {
		if raw == "" {
			continue
		}
		values, err := parseList(raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		*targets[name] = values
	}
	return cfg.Validate()
}

func parseList(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func run(ctx context.Context, cfg *config.Config, input string, window backtest.Window, top int, logger *zap.Logger) error {
	if input == "" && cfg.Storage.PostgresDSN == "" {
		return errors.New("--input or --postgres-dsn is required")
	}
	logger.Info("grid configured",
		zap.Int("combinations", cfg.Optimize.Grid.Size()),
		zap.Int64("from_ms", window.FromMs),
		zap.Int64("to_ms", window.ToMs),
	)

	m := observability.NewMetrics(observability.DefaultNamespace)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(m), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
	}

	b, err := backends.Open(ctx, backends.Options{
		LaunchFile:    input,
		PostgresDSN:   cfg.Storage.PostgresDSN,
		ClickHouseDSN: cfg.Storage.ClickHouseDSN,
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
		Logger:      logger,
	})
	engine, err := runner.LoadEngine(ctx, window)
	if err != nil {
		return err
	}

	results, err := optimize.Run(ctx, engine, cfg.Backtest, cfg.Optimize.Grid, window, optimize.Options{
		Objective: cfg.Optimize.Objective,
		Workers:   cfg.Optimize.Workers,
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	shown := results
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}
	fmt.Print(reporting.RenderGridMarkdown(shown, cfg.Optimize.Objective))

	best := results[0].Results
	fmt.Printf("\nBest: %s (%s to %s)\n", optimize.Label(results[0].Config.Strategy),
		launchdata.FormatTimestamp(best.StartMs), launchdata.FormatTimestamp(best.EndMs))
	fmt.Print(reporting.RenderText(best))
	return nil
}

func metricsMux(m *observability.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
