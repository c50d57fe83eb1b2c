package bench

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "goserde"

const (
	resultOK    = "ok"
	resultError = "error"
)

// Recorder collects operation metrics of a Surface.
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	encoded    *prometheus.HistogramVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "operations_total",
				Help:      "Number of codec operations by result",
			},
			[]string{"op", "dataset", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of codec operations",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"op", "dataset"},
		),
		encoded: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "encode_bytes",
				Help:      "Size of encoded buffers",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 12),
			},
			[]string{"op", "dataset"},
		),
	}
	for _, c := range []prometheus.Collector{r.operations, r.duration, r.encoded} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metrics")
		}
	}
	return r, nil
}

func (r *Recorder) observe(op, dataset string, started time.Time, size int, err error) {
	if r == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	r.operations.WithLabelValues(op, dataset, result).Inc()
	r.duration.WithLabelValues(op, dataset).Observe(time.Since(started).Seconds())
	if err == nil && size >= 0 {
		r.encoded.WithLabelValues(op, dataset).Observe(float64(size))
	}
}
