package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion service

var (
	// API call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_api_calls_total",
			Help: "Total number of api-nba upstream calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_api_call_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// File cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_cache_hits_total",
			Help: "Total number of season cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_cache_misses_total",
			Help: "Total number of season cache misses",
		},
	)

	// Response cache metrics (read API)
	ResponseCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_response_cache_hits_total",
			Help: "Total number of read-API response cache hits",
		},
	)

	ResponseCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_response_cache_misses_total",
			Help: "Total number of read-API response cache misses",
		},
	)

	// Ingestion metrics
	SeasonsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_seasons_processed_total",
			Help: "Seasons processed per ingestion outcome",
		},
		[]string{"outcome"},
	)

	GamesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_games_ingested_total",
			Help: "Total number of game rows persisted",
		},
	)

	SyncOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_sync_operations_total",
			Help: "Total number of ingestion runs",
		},
		[]string{"status"},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nba_sync_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_last_successful_sync_timestamp",
			Help: "Timestamp of last successful ingestion run",
		},
	)
)

// RecordAPICall records an upstream API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordCacheHit records a season cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a season cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordSeason records the outcome of processing one season
// (fetched, cached, synced)
func RecordSeason(outcome string) {
	SeasonsProcessed.WithLabelValues(outcome).Inc()
}

// RecordGamesIngested records persisted game rows
func RecordGamesIngested(n int) {
	GamesIngested.Add(float64(n))
}

// RecordSync records an ingestion run
func RecordSync(status string, duration float64) {
	SyncOperationsTotal.WithLabelValues(status).Inc()
	SyncDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
