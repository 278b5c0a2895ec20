// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the feed.
type Metrics struct {
	// Update metrics
	ItemsProcessed  *prometheus.CounterVec
	VariantsDropped prometheus.Counter
	QuotaReached    prometheus.Counter
	FetchLatency    prometheus.Histogram

	// Catalog metrics
	KeywordsQueried  *prometheus.CounterVec
	CatalogItems     prometheus.Gauge
	CatalogSnapshots prometheus.Counter

	// Registry metrics
	RegistryEntries prometheus.Gauge
	RegistryFlushes *prometheus.CounterVec

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec

	// Storage metrics
	StoreOpDuration *prometheus.HistogramVec
	StoreOpErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulUpdate prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sneaker_feed"
	}

	return &Metrics{
		// Update metrics
		ItemsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "update",
			Name:      "items_total",
			Help:      "Total number of catalog items visited by outcome",
		}, []string{"outcome"}),
		VariantsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "update",
			Name:      "variants_dropped_total",
			Help:      "Total number of variants dropped for a malformed size or missing market data",
		}),
		QuotaReached: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "update",
			Name:      "quota_reached_total",
			Help:      "Total number of update runs stopped by the item quota",
		}),
		FetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "marketplace",
			Name:      "fetch_latency_seconds",
			Help:      "Product detail fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Catalog metrics
		KeywordsQueried: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "keywords_queried_total",
			Help:      "Total number of keyword searches by status",
		}, []string{"status"}),
		CatalogItems: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "items",
			Help:      "Number of items in the last built or loaded catalog",
		}),
		CatalogSnapshots: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "snapshots_saved_total",
			Help:      "Total number of catalog snapshots saved",
		}),

		// Registry metrics
		RegistryEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "entries",
			Help:      "Number of identifiers in the last-updated registry",
		}),
		RegistryFlushes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "flushes_total",
			Help:      "Total number of registry flushes by status",
		}, []string{"status"}),

		// Run metrics
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "runs_total",
			Help:      "Total number of runs by mode and status",
		}, []string{"mode", "status"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}, []string{"mode"}),

		// Storage metrics
		StoreOpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "op_duration_seconds",
			Help:      "Storage operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store", "operation"}),
		StoreOpErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "op_errors_total",
			Help:      "Total number of storage operation errors",
		}, []string{"store", "operation"}),

		// Health metrics
		LastSuccessfulUpdate: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_update_timestamp",
			Help:      "Unix timestamp of last successful update run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// Item outcomes.
const (
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// RecordItem increments the item counter for an outcome.
func RecordItem(outcome string) {
	DefaultMetrics.ItemsProcessed.WithLabelValues(outcome).Inc()
}

// RecordVariantsDropped adds n dropped variants.
func RecordVariantsDropped(n int) {
	DefaultMetrics.VariantsDropped.Add(float64(n))
}

// RecordQuotaReached records a run stopped by the quota.
func RecordQuotaReached() {
	DefaultMetrics.QuotaReached.Inc()
}

// RecordFetchLatency records product detail fetch latency.
func RecordFetchLatency(seconds float64) {
	DefaultMetrics.FetchLatency.Observe(seconds)
}

// RecordKeyword records a keyword search.
func RecordKeyword(err error) {
	DefaultMetrics.KeywordsQueried.WithLabelValues(status(err)).Inc()
}

// RecordCatalog records a saved catalog snapshot of n items.
func RecordCatalog(n int) {
	DefaultMetrics.CatalogItems.Set(float64(n))
	DefaultMetrics.CatalogSnapshots.Inc()
}

// UpdateCatalogSize updates the catalog item gauge.
func UpdateCatalogSize(n int) {
	DefaultMetrics.CatalogItems.Set(float64(n))
}

// RecordRegistryFlush records a registry flush of n entries.
func RecordRegistryFlush(n int, err error) {
	DefaultMetrics.RegistryFlushes.WithLabelValues(status(err)).Inc()
	if err == nil {
		DefaultMetrics.RegistryEntries.Set(float64(n))
	}
}

// RecordStoreOp records storage operation metrics.
func RecordStoreOp(store, operation string, seconds float64, err error) {
	DefaultMetrics.StoreOpDuration.WithLabelValues(store, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.StoreOpErrors.WithLabelValues(store, operation).Inc()
	}
}

// RecordRun records a finished run.
func RecordRun(mode string, durationSeconds float64, err error) {
	DefaultMetrics.RunsTotal.WithLabelValues(mode, status(err)).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// MarkUpdateSuccess sets the last successful update timestamp.
func MarkUpdateSuccess(unix int64) {
	DefaultMetrics.LastSuccessfulUpdate.Set(float64(unix))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
