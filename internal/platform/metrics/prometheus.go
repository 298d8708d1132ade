package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the service's Prometheus metrics.
type MetricsManager struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
	InteractionHits *prometheus.CounterVec
}

func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	interactionHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "interactions_total",
		Help:      "Total number of interaction operations by kind and op.",
	}, []string{"kind", "op"})

	registry.MustRegister(
		requestsTotal,
		requestLatency,
		interactionHits,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:        registry,
		RequestsTotal:   requestsTotal,
		RequestLatency:  requestLatency,
		InteractionHits: interactionHits,
	}
}

// Handler exposes the registry under /metrics.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
