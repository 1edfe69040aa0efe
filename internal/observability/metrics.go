// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"curve-lab/internal/domain"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "curve_lab"

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	// Backtest metrics
	BacktestRunsTotal *prometheus.CounterVec
	BacktestDuration  *prometheus.HistogramVec
	LaunchesReplayed  prometheus.Counter
	PositionsOpened   prometheus.Counter
	PositionsClosed   *prometheus.CounterVec
	FallbackExits     prometheus.Counter

	// Optimizer metrics
	GridCombinations prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		BacktestRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "runs_total",
			Help:      "Total number of backtest runs by mode and status",
		}, []string{"mode", "status"}),
		BacktestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "run_duration_seconds",
			Help:      "Backtest run duration",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"mode"}),
		LaunchesReplayed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "launches_replayed_total",
			Help:      "Total number of launches replayed",
		}),
		PositionsOpened: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "positions_opened_total",
			Help:      "Total number of simulated entries",
		}),
		PositionsClosed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "positions_closed_total",
			Help:      "Total number of simulated exits by reason",
		}, []string{"exit_reason"}),
		FallbackExits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "fallback_exits_total",
			Help:      "Total number of exits priced by the data-gap fallback",
		}),

		GridCombinations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimize",
			Name:      "combinations_evaluated_total",
			Help:      "Total number of parameter combinations evaluated",
		}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of failed database queries",
		}, []string{"database", "operation"}),

		LastSuccessfulRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful backtest run",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRun records a finished backtest. res may be nil on failure.
func (m *Metrics) RecordRun(mode domain.Mode, res *domain.Results, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.BacktestRunsTotal.WithLabelValues(string(mode), status).Inc()
	m.BacktestDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
	if res == nil {
		return
	}

	m.LaunchesReplayed.Add(float64(res.Launches))
	m.PositionsOpened.Add(float64(len(res.Positions) + len(res.OpenPositions)))
	for _, p := range res.Positions {
		m.PositionsClosed.WithLabelValues(string(p.ExitReason)).Inc()
	}
	m.FallbackExits.Add(float64(res.FallbackExits))
	m.LastSuccessfulRun.SetToCurrentTime()
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, elapsed time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(elapsed.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
