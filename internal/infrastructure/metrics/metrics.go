package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scan outcomes
const (
	ScanSuccess   = "success"
	ScanMalformed = "malformed"
	ScanTransport = "transport"
	ScanRejected  = "rejected"
)

// Diet generation outcomes
const (
	GenerationSuccess = "success"
	GenerationInvalid = "invalid"
	GenerationFailed  = "failed"
)

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	scans       *prometheus.CounterVec
	generations *prometheus.CounterVec
	cacheHits   prometheus.Counter
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexanutri",
			Name:      "scans_total",
			Help:      "Food photo scans by outcome.",
		}, []string{"outcome"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nexanutri",
			Name:      "diet_generations_total",
			Help:      "Diet plan generations by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nexanutri",
			Name:      "diet_cache_hits_total",
			Help:      "Diet plans served from cache.",
		}),
	}

	m.registry.MustRegister(
		m.scans,
		m.generations,
		m.cacheHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveScan counts a scan with the given outcome
func (m *Metrics) ObserveScan(outcome string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(outcome).Inc()
}

// ObserveGeneration counts a diet generation with the given outcome
func (m *Metrics) ObserveGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

// ObserveCacheHit counts a plan served from cache
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
