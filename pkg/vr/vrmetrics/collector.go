// Package vrmetrics is an optional Prometheus collector for
// vr.DocumentValidator runs (original_source has no analogue; grounded
// on bittoy-rule/engine/metrics.go's counter+histogram pair, adapted
// from that file's package-level init()-registered globals into an
// explicit, caller-constructed Collector so instrumentation stays
// opt-in per run instead of process-wide).
package vrmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts vr.DocumentValidator runs by result and tracks their
// duration. It implements vr's MetricsRecorder interface by having a
// matching RecordValidation method; it does not import pkg/vr.
type Collector struct {
	runsTotal *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewCollector builds a Collector with its own metric descriptors. Call
// Register to attach it to a prometheus.Registerer before use.
func NewCollector() *Collector {
	return &Collector{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vr",
				Subsystem: "validation",
				Name:      "runs_total",
				Help:      "Total DocumentValidator runs, by result.",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "vr",
				Subsystem: "validation",
				Name:      "duration_seconds",
				Help:      "Duration of DocumentValidator runs.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// Register attaches the collector's metrics to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if err := reg.Register(c.runsTotal); err != nil {
		return err
	}
	return reg.Register(c.duration)
}

// RecordValidation records the outcome of one DocumentValidator run.
func (c *Collector) RecordValidation(ok bool, duration time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	c.runsTotal.WithLabelValues(result).Inc()
	c.duration.Observe(duration.Seconds())
}
