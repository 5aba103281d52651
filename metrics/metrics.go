// Package metrics counts probes and captures. The counters are written to a
// text file in the Prometheus exposition format, for the node exporter
// textfile collector to pick up.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "snapshot"

// Recorder holds the collectors of one process. A nil *Recorder records
// nothing.
type Recorder struct {
	registry *prometheus.Registry
	probes   *prometheus.CounterVec
	captures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     prometheus.Counter
	lastRun  prometheus.Gauge
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Device probes by result (present, absent, unrecognized, error).",
		}, []string{"result"}),
		captures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captures_total",
			Help:      "Capture attempts by backend and result.",
		}, []string{"backend", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "capture_duration_seconds",
			Help:      "Time taken by one capture.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"backend"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Capture runs started.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last capture run finished.",
		}),
	}
	r.registry.MustRegister(r.probes, r.captures, r.duration, r.runs, r.lastRun)
	return r
}

// Probe counts one probe with the given result.
func (r *Recorder) Probe(result string) {
	if r == nil {
		return
	}
	r.probes.WithLabelValues(result).Inc()
}

// Capture counts one capture attempt on backend ("native" or "external").
func (r *Recorder) Capture(backend string, ok bool, d time.Duration) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.captures.WithLabelValues(backend, result).Inc()
	r.duration.WithLabelValues(backend).Observe(d.Seconds())
}

// RunStarted counts a capture run.
func (r *Recorder) RunStarted() {
	if r == nil {
		return
	}
	r.runs.Inc()
}

// RunFinished records the end time of a capture run.
func (r *Recorder) RunFinished(t time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes all metrics to path, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
