// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Fetch metrics
	VaultsDiscovered prometheus.Gauge
	VaultsFetched    prometheus.Counter
	FetchErrors      *prometheus.CounterVec

	// Aggregation metrics
	VaultsAggregated    prometheus.Counter
	AggregationFailures prometheus.Counter

	// Storage metrics
	VaultsUpserted     prometheus.Counter
	HistoryRowsWritten prometheus.Counter
	DBQueryErrors      *prometheus.CounterVec

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Stream metrics
	WSFillEvents prometheus.Counter
	WSReconnects prometheus.Counter
	DirtyVaults  prometheus.Gauge

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "hyperliquid_vault_lab"
	}

	return &Metrics{
		VaultsDiscovered: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "vaults_discovered",
			Help:      "Number of vaults returned by the last listing call",
		}),
		VaultsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "vaults_fetched_total",
			Help:      "Total number of vaults fetched successfully",
		}),
		FetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "errors_total",
			Help:      "Total number of fetch errors by stage",
		}, []string{"stage"}),

		VaultsAggregated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "vaults_total",
			Help:      "Total number of vault metric records computed",
		}),
		AggregationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "failures_total",
			Help:      "Total number of vaults that failed normalization or aggregation",
		}),

		VaultsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "vaults_upserted_total",
			Help:      "Total number of vault metric records upserted",
		}),
		HistoryRowsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "history_rows_written_total",
			Help:      "Total number of history rows written to ClickHouse",
		}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_errors_total",
			Help:      "Total number of database errors by store and operation",
		}, []string{"store", "operation"}),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "runs_total",
			Help:      "Total number of ETL runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of ETL runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),

		WSFillEvents: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "fill_events_total",
			Help:      "Total number of websocket fill events received",
		}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of websocket reconnects",
		}),
		DirtyVaults: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "dirty_vaults",
			Help:      "Number of vaults with unprocessed fill activity",
		}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful ETL run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
