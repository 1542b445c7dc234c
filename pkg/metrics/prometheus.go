// Package metrics provides Prometheus metrics for the onbase streak tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the tracker exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Streak state
	refreshes       *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	currentStreak   prometheus.Gauge
	streakActive    prometheus.Gauge
	leaderboardRank prometheus.Gauge
	refreshDuration prometheus.Histogram

	// Persistence
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec

	// Upstream stats API
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	upstreamWarnings *prometheus.CounterVec
	finalCacheHits   prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "onbase",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.refreshes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refreshes_total",
		Help:      "Refresh cycles by outcome (ok, error)",
	}, []string{"outcome"})

	m.transitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transitions_total",
		Help:      "Streak state transitions by kind (none, extended, ended)",
	}, []string{"kind"})

	m.currentStreak = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "current_streak_games",
		Help:      "Streak length held by the persisted record",
	})

	m.streakActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "streak_active",
		Help:      "1 while the tracked streak is active, 0 once it ended",
	})

	m.leaderboardRank = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_rank",
		Help:      "Current all-time rank of the tracked streak (0 when unranked)",
	})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_seconds",
		Help:      "Wall time of one load-compare-persist-rank cycle",
		Buckets:   m.histogramBuckets,
	})

	m.storeOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_operations_total",
		Help:      "Streak store operations by backend, op and result",
	}, []string{"backend", "op", "result"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_seconds",
		Help:      "Streak store operation latency",
		Buckets:   m.histogramBuckets,
	}, []string{"backend", "op"})

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Requests to the stats API by endpoint and status",
	}, []string{"endpoint", "status"})

	m.upstreamLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_latency_seconds",
		Help:      "Stats API request latency",
		Buckets:   m.histogramBuckets,
	})

	m.upstreamWarnings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_warnings_total",
		Help:      "Non-fatal feed warnings by kind",
	}, []string{"kind"})

	m.finalCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "final_status_cache_hits_total",
		Help:      "Game final-status lookups answered from cache",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRefresh counts one refresh cycle and observes its duration.
func RecordRefresh(outcome string, seconds float64) {
	globalManager.refreshes.WithLabelValues(outcome).Inc()
	globalManager.refreshDuration.Observe(seconds)
}

// RecordTransition counts a state-machine outcome.
func RecordTransition(kind string) {
	globalManager.transitions.WithLabelValues(kind).Inc()
}

// UpdateStreak publishes the persisted streak length and whether it is active.
func UpdateStreak(games int, active bool) {
	globalManager.currentStreak.Set(float64(games))
	if active {
		globalManager.streakActive.Set(1)
		return
	}
	globalManager.streakActive.Set(0)
}

// UpdateLeaderboardRank publishes the tracked player's rank.
func UpdateLeaderboardRank(rank int) {
	globalManager.leaderboardRank.Set(float64(rank))
}

// RecordStoreOperation counts a store call and observes its latency.
func RecordStoreOperation(backend, op, result string, seconds float64) {
	globalManager.storeOperations.WithLabelValues(backend, op, result).Inc()
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(seconds)
}

// RecordUpstreamRequest counts a stats API call and observes its latency.
func RecordUpstreamRequest(endpoint, status string, seconds float64) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, status).Inc()
	globalManager.upstreamLatency.Observe(seconds)
}

// RecordUpstreamWarning counts a non-fatal feed warning.
func RecordUpstreamWarning(kind string) {
	globalManager.upstreamWarnings.WithLabelValues(kind).Inc()
}

// RecordFinalCacheHit counts a cached final-status lookup.
func RecordFinalCacheHit() {
	globalManager.finalCacheHits.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
