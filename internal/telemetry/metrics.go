package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ScanRequests      *prometheus.CounterVec
	InferenceDuration prometheus.Histogram
	ModelsLoaded      prometheus.Gauge
}

// NewMetrics creates and registers all collectors.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ScanRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "organic_scanner_scan_requests_total",
			Help: "Scan requests by outcome",
		}, []string{"outcome"}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "organic_scanner_inference_duration_seconds",
			Help:    "Duration of the two-stage inference pipeline",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		ModelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "organic_scanner_models_loaded",
			Help: "Whether the model artifacts are loaded (1) or not (0)",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.ScanRequests,
		m.InferenceDuration,
		m.ModelsLoaded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveScan records one scan with its outcome and duration.
func (m *Metrics) ObserveScan(outcome string, d time.Duration) {
	m.ScanRequests.WithLabelValues(outcome).Inc()
	m.InferenceDuration.Observe(d.Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
