// Package metrics exposes Prometheus collectors for solve runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes.
const (
	OutcomeSolved        = "solved"
	OutcomeCritical      = "critical"
	OutcomeDeclined      = "declined"
	OutcomeSolverFailure = "solver_failure"
	OutcomeInvalidInput  = "invalid_input"
)

const namespace = "max_profit"

// Recorder records the outcome of solve runs. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	violations prometheus.Gauge
}

// NewRecorder creates the collectors and registers them on reg. A nil reg
// gets a fresh registry.
func NewRecorder(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Recorder{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of solve runs by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Time spent in the LP solver",
			Buckets:   prometheus.DefBuckets,
		}),
		violations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_violations",
			Help:      "Constraint violations found when verifying the last solved allocation",
		}),
	}

	for _, c := range []prometheus.Collector{r.runs, r.duration, r.violations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveRun counts a finished run.
func (r *Recorder) ObserveRun(outcome string) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(outcome).Inc()
}

// ObserveSolve records the duration of one solver call.
func (r *Recorder) ObserveSolve(d time.Duration) {
	if r == nil {
		return
	}
	r.duration.Observe(d.Seconds())
}

// SetViolations records the violation count of the last verified allocation.
func (r *Recorder) SetViolations(n int) {
	if r == nil {
		return
	}
	r.violations.Set(float64(n))
}

// Gatherer returns the registry the collectors are registered on.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
