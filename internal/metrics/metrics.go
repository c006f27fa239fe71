// Package metrics records job metrics in a private Prometheus registry.
//
// The CLI is short-lived, so nothing is scraped. When a metrics file is
// configured the registry is written once at job end in the node_exporter
// textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
	ResultPending = "pending"
)

// Recorder holds the job's collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	stepsTotal    *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	pollsTotal    *prometheus.CounterVec
	readyDuration prometheus.Gauge
	jobsTotal     *prometheus.CounterVec
	jobDuration   prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "podtrain",
				Subsystem: "pipeline",
				Name:      "steps_total",
				Help:      "Pipeline steps executed by step and result",
			},
			[]string{"step", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "podtrain",
				Subsystem: "pipeline",
				Name:      "step_duration_seconds",
				Help:      "Duration of pipeline steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 14), // 1s to ~2.3h
			},
			[]string{"step"},
		),
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "podtrain",
				Subsystem: "provisioning",
				Name:      "readiness_polls_total",
				Help:      "Readiness queries by result",
			},
			[]string{"result"},
		),
		readyDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "podtrain",
			Subsystem: "provisioning",
			Name:      "ready_duration_seconds",
			Help:      "Time from create to a reachable endpoint",
		}),
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "podtrain",
				Subsystem: "job",
				Name:      "runs_total",
				Help:      "Job runs by final stage and result",
			},
			[]string{"stage", "result"},
		),
		jobDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "podtrain",
			Subsystem: "job",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of the job",
		}),
	}

	r.registry.MustRegister(
		r.stepsTotal,
		r.stepDuration,
		r.pollsTotal,
		r.readyDuration,
		r.jobsTotal,
		r.jobDuration,
	)
	return r
}

// ObserveStep records one finished pipeline step.
func (r *Recorder) ObserveStep(step, result string, d time.Duration) {
	if r == nil {
		return
	}
	r.stepsTotal.WithLabelValues(step, result).Inc()
	r.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// ObservePoll records one readiness query: success, pending or error.
func (r *Recorder) ObservePoll(result string) {
	if r == nil {
		return
	}
	r.pollsTotal.WithLabelValues(result).Inc()
}

// ObserveReady records how long the instance took to become reachable.
func (r *Recorder) ObserveReady(d time.Duration) {
	if r == nil {
		return
	}
	r.readyDuration.Set(d.Seconds())
}

// ObserveJob records the job outcome and the stage it ended in.
func (r *Recorder) ObserveJob(stage, result string, d time.Duration) {
	if r == nil {
		return
	}
	r.jobsTotal.WithLabelValues(stage, result).Inc()
	r.jobDuration.Set(d.Seconds())
}

// WriteTextfile writes the registry to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
