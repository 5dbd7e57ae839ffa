package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the extraction pipeline.
// All methods are nil-safe so callers never have to guard.
type Metrics struct {
	Registry         *prometheus.Registry
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  prometheus.Histogram
	RetriesTotal     prometheus.Counter
	ItemsTotal       *prometheus.CounterVec
	QualityTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_requests_total",
			Help: "Total HTTP requests issued by the page fetcher.",
		},
		[]string{"outcome"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extractor_request_duration_seconds",
			Help:    "Page fetch latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extractor_retries_total",
			Help: "Total retry attempts scheduled by the page fetcher.",
		},
	)
	items := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_items_total",
			Help: "Total raw product records parsed, per brand.",
		},
		[]string{"brand"},
	)
	quality := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_quality_violations_total",
			Help: "Data-quality violations found after normalization, per check.",
		},
		[]string{"check"},
	)

	registry.MustRegister(requests, requestDuration, retries, items, quality)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		RetriesTotal:    retries,
		ItemsTotal:      items,
		QualityTotal:    quality,
	}
}

// IncRequest counts one fetch attempt by outcome ("ok", "error", "retry_exhausted").
func (m *Metrics) IncRequest(outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records one fetch round-trip.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncRetries counts one scheduled retry.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// AddItems counts raw records parsed for a brand.
func (m *Metrics) AddItems(brand string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemsTotal.WithLabelValues(brand).Add(float64(n))
}

// IncQualityViolation counts one failed data-quality check.
func (m *Metrics) IncQualityViolation(check string) {
	if m == nil {
		return
	}
	m.QualityTotal.WithLabelValues(check).Inc()
}
