package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/musetronstar/tagd/tagd"
)

// Metrics counts engine operations by outcome.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the engine's collectors with reg.
// A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tagd_operations_total",
			Help: "Engine operations by result code",
		}, []string{"op", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tagd_operation_duration_seconds",
			Help:    "Time to execute an engine operation",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"op"}),
	}
}

// observe is a no-op on a nil receiver.
func (m *Metrics) observe(op string, code tagd.Code, d time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, code.String()).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}
