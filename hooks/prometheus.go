package hooks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics is a second MetricsCollector implementation, suited to
// deployments that already scrape a /metrics endpoint rather than polling an
// in-process snapshot.
type PrometheusMetrics struct {
	duration   *prometheus.HistogramVec
	throughput prometheus.Counter
	memory     prometheus.Gauge
	errors     *prometheus.CounterVec
}

// NewPrometheusMetrics registers its collectors against reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) *PrometheusMetrics {
	m := &PrometheusMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Processing stage duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		throughput: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_processed_total",
			Help:      "Cumulative bytes of processed output.",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_bytes",
			Help:      "Last reported in-flight memory usage, in bytes.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Cumulative stage errors by code.",
		}, []string{"stage", "code"}),
	}
	reg.MustRegister(m.duration, m.throughput, m.memory, m.errors)
	return m
}

func (m *PrometheusMetrics) RecordProcessingTime(stage string, d time.Duration) {
	m.duration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordThroughput(bytes int64) { m.throughput.Add(float64(bytes)) }
func (m *PrometheusMetrics) RecordMemory(bytes int64)     { m.memory.Set(float64(bytes)) }

func (m *PrometheusMetrics) RecordError(stage string, code string) {
	m.errors.WithLabelValues(stage, code).Inc()
}
