// Package monitoring manages the gateway's Prometheus metrics.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	AuthDecisions    *prometheus.CounterVec
	AuthLatency      *prometheus.HistogramVec
	CacheEvents      *prometheus.CounterVec
	SecretOps        *prometheus.CounterVec
	ProxyForwards    *prometheus.CounterVec
	ProxyLatency     *prometheus.HistogramVec
	ProxyErrors      *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
}

// NewMetrics creates and registers the gateway metrics on the given
// registerer. Production passes prometheus.DefaultRegisterer; tests pass a
// private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AuthDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_auth_decisions_total",
				Help: "Total number of authorization decisions.",
			},
			[]string{"effect", "source"},
		),
		AuthLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgegate_auth_latency_seconds",
				Help:    "Latency of authorization decisions.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		CacheEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_decision_cache_events_total",
				Help: "Decision cache hits and misses.",
			},
			[]string{"backend", "event"},
		),
		SecretOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_secret_operations_total",
				Help: "Secret store fetches and refreshes by result.",
			},
			[]string{"operation", "result"},
		),
		ProxyForwards: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_proxy_forwards_total",
				Help: "Total number of requests forwarded to the backend.",
			},
			[]string{"service", "method", "status"},
		),
		ProxyLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgegate_proxy_latency_seconds",
				Help:    "Latency of backend forwarding.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method"},
		),
		ProxyErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_proxy_errors_total",
				Help: "Backend forwarding failures by category.",
			},
			[]string{"category"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgegate_http_requests_total",
				Help: "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgegate_http_request_duration_seconds",
				Help:    "HTTP request duration.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordDecision records one authorization decision. Source is "cache" or
// "computed".
func (m *Metrics) RecordDecision(effect, source string, duration time.Duration) {
	m.AuthDecisions.WithLabelValues(effect, source).Inc()
	m.AuthLatency.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordCacheEvent records a decision-cache hit or miss.
func (m *Metrics) RecordCacheEvent(backend, event string) {
	m.CacheEvents.WithLabelValues(backend, event).Inc()
}

// RecordSecretOp records a secret store operation outcome.
func (m *Metrics) RecordSecretOp(operation, result string) {
	m.SecretOps.WithLabelValues(operation, result).Inc()
}

// RecordForward records one backend forward.
func (m *Metrics) RecordForward(service, method, status string, duration time.Duration) {
	m.ProxyForwards.WithLabelValues(service, method, status).Inc()
	m.ProxyLatency.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordProxyError records a forwarding failure by category.
func (m *Metrics) RecordProxyError(category string) {
	m.ProxyErrors.WithLabelValues(category).Inc()
}
