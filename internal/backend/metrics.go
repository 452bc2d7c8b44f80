package backend

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records backend call outcomes.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the backend collectors. A nil registerer uses the
// default Prometheus registerer once per process.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "synexis_backend_requests_total",
		Help: "Backend API calls partitioned by resource, operation and outcome.",
	}, []string{"resource", "op", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "synexis_backend_request_duration_seconds",
		Help:    "Backend API call latency per resource and operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "op"})
	registerer.MustRegister(calls, duration)
	return &Metrics{calls: calls, duration: duration}
}

func (m *Metrics) observe(resource, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(resource, op, Kind(err)).Inc()
	m.duration.WithLabelValues(resource, op).Observe(time.Since(start).Seconds())
}
