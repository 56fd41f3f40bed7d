// Package metrics provides Prometheus metrics for the stats tracker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the counters.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeSkipped = "skipped"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale_fallback"
	CacheError = "error"
)

// Manager owns the tracker's collectors. A nil *Manager is valid and records
// nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	aggregations     *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	refreshEvents    *prometheus.CounterVec
	wsClients        prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry sets the registry the collectors are registered on.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a manager on a private registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nhl_stats",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Upstream fetches by source and outcome",
	}, []string{"source", "outcome"})

	m.upstreamLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Upstream fetch latency in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.aggregations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "aggregator",
		Name:      "runs_total",
		Help:      "Team-season aggregations by outcome",
	}, []string{"outcome"})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by result",
	}, []string{"result"})

	m.refreshEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "refresh_notifications_total",
		Help:      "Refresh notifications by notifier and outcome",
	}, []string{"notifier", "outcome"})

	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "websocket",
		Name:      "clients",
		Help:      "Connected refresh subscribers",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

// Registry returns the registry backing the manager.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the manager's registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one upstream fetch.
func (m *Manager) ObserveUpstream(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(source, outcome).Inc()
	m.upstreamLatency.WithLabelValues(source).Observe(d.Seconds())
}

// IncAggregation counts a finished aggregation.
func (m *Manager) IncAggregation(outcome string) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(outcome).Inc()
}

// IncCacheLookup counts a cache lookup by result.
func (m *Manager) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// IncRefreshNotification counts a refresh notification.
func (m *Manager) IncRefreshNotification(notifier, outcome string) {
	if m == nil {
		return
	}
	m.refreshEvents.WithLabelValues(notifier, outcome).Inc()
}

// SetWebSocketClients sets the subscriber gauge.
func (m *Manager) SetWebSocketClients(n int) {
	if m == nil {
		return
	}
	m.wsClients.Set(float64(n))
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
