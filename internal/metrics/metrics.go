package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request paths and outcomes used as label values
const (
	PathList    = "list"
	PathSummary = "summary"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the worker collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	upstreamFetch       prometheus.Histogram
	modelCall           prometheus.Histogram
	transformedTotal    prometheus.Counter
	unknownCountryTotal prometheus.Counter
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "confworker",
		Name:      "requests_total",
		Help:      "Requests handled by path and outcome",
	}, []string{"path", "outcome"})
	m.upstreamFetch = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "confworker",
		Name:      "upstream_fetch_seconds",
		Help:      "Time spent fetching the upstream conference feed",
		Buckets:   prometheus.DefBuckets,
	})
	m.modelCall = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "confworker",
		Name:      "model_call_seconds",
		Help:      "Time spent waiting for the summary model",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20},
	})
	m.transformedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "confworker",
		Name:      "conferences_transformed_total",
		Help:      "Conference records converted to the canonical schema",
	})
	m.unknownCountryTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "confworker",
		Name:      "unknown_countries_total",
		Help:      "Countries that fell back to the default flag",
	})

	m.registry.MustRegister(
		m.requestsTotal, m.upstreamFetch, m.modelCall,
		m.transformedTotal, m.unknownCountryTotal,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest counts a handled request
func (m *Metrics) ObserveRequest(path, outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(path, outcome).Inc()
}

// ObserveUpstreamFetch records the duration of a feed download
func (m *Metrics) ObserveUpstreamFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamFetch.Observe(d.Seconds())
}

// ObserveModelCall records the duration of a model invocation
func (m *Metrics) ObserveModelCall(d time.Duration) {
	if m == nil {
		return
	}
	m.modelCall.Observe(d.Seconds())
}

// AddTransformed counts canonical records produced
func (m *Metrics) AddTransformed(n int) {
	if m == nil {
		return
	}
	m.transformedTotal.Add(float64(n))
}

// UnknownCountry counts a default-flag fallback
func (m *Metrics) UnknownCountry(string) {
	if m == nil {
		return
	}
	m.unknownCountryTotal.Inc()
}
