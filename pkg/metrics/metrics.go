// Package metrics provides Prometheus metrics for the worklens service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "worklens"

// Manager holds all Prometheus collectors for the service
type Manager struct {
	registry prometheus.Registerer

	boardFetches    prometheus.Counter
	boardFetchError prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	chatCompletions *prometheus.CounterVec
	chatErrors      *prometheus.CounterVec

	exports prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Custom registry keeps the default Go runtime collectors out of /metrics
var customRegistry = prometheus.NewRegistry()

var globalManager = NewManager(customRegistry)

// NewManager creates a Manager registered on the given registry
func NewManager(registry prometheus.Registerer) *Manager {
	auto := promauto.With(registry)
	return &Manager{
		registry: registry,

		boardFetches: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_fetches_total",
			Help:      "Total number of board fetches against the upstream API",
		}),
		boardFetchError: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_fetch_errors_total",
			Help:      "Total number of failed upstream board fetches",
		}),
		cacheHits: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_hits_total",
			Help:      "Total number of board loads served from a stored snapshot",
		}),
		cacheMisses: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_misses_total",
			Help:      "Total number of board loads that required an upstream fetch",
		}),

		chatCompletions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_completions_total",
			Help:      "Total number of chat completions by provider and mode",
		}, []string{"provider", "mode"}),
		chatErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_errors_total",
			Help:      "Total number of failed chat completions by provider",
		}, []string{"provider"}),

		exports: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of spreadsheet exports",
		}),

		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by path, method and status",
		}, []string{"path", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
	}
}

// RecordBoardFetch increments the upstream fetch counter
func RecordBoardFetch() {
	globalManager.boardFetches.Inc()
}

// RecordBoardFetchError increments the upstream fetch error counter
func RecordBoardFetchError() {
	globalManager.boardFetchError.Inc()
}

// RecordCacheHit increments the snapshot cache hit counter
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the snapshot cache miss counter
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordChatCompletion increments the chat completion counter.
// mode is "live" or "demo".
func RecordChatCompletion(provider, mode string) {
	globalManager.chatCompletions.WithLabelValues(provider, mode).Inc()
}

// RecordChatError increments the chat error counter
func RecordChatError(provider string) {
	globalManager.chatErrors.WithLabelValues(provider).Inc()
}

// RecordExport increments the spreadsheet export counter
func RecordExport() {
	globalManager.exports.Inc()
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(path, method, status string) {
	globalManager.httpRequests.WithLabelValues(path, method, status).Inc()
}

// RecordHTTPRequestDuration records one request's duration in seconds
func RecordHTTPRequestDuration(path, method string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(path, method).Observe(seconds)
}

// Registry returns the registry backing the /metrics endpoint
func Registry() *prometheus.Registry {
	return customRegistry
}
