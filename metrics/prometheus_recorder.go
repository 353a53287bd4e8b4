package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	candidates     *prom.CounterVec
	cycles         *prom.CounterVec
	cycleDuration  prom.Histogram
	descentSteps   prom.Histogram
	executionState prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg, or on a fresh registry if reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		candidates: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "graspexec",
			Name:      "candidate_outcomes_total",
			Help:      "Evaluated grasp candidates by outcome",
		}, []string{"outcome"}),
		cycles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "graspexec",
			Name:      "cycle_outcomes_total",
			Help:      "Top-level cycles by outcome",
		}, []string{"outcome"}),
		cycleDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "graspexec",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a detect, evaluate and execute cycle",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		descentSteps: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "graspexec",
			Name:      "descent_steps",
			Help:      "Force-controlled descent steps issued before closing",
			Buckets:   prom.LinearBuckets(0, 5, 8),
		}),
		executionState: prom.NewGauge(prom.GaugeOpts{
			Namespace: "graspexec",
			Name:      "execution_state",
			Help:      "Pick-place phase: 0 first grab, 1 second grab, 2 finished",
		}),
	}
	reg.MustRegister(pr.candidates, pr.cycles, pr.cycleDuration, pr.descentSteps, pr.executionState)
	return pr
}

func (p *PrometheusRecorder) IncCandidateOutcome(outcome CandidateOutcome) {
	if p == nil {
		return
	}
	p.candidates.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncCycleOutcome(outcome CycleOutcome) {
	if p == nil {
		return
	}
	p.cycles.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveCycleDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.cycleDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveDescentSteps(steps int) {
	if p == nil {
		return
	}
	p.descentSteps.Observe(float64(steps))
}

func (p *PrometheusRecorder) SetExecutionState(state int) {
	if p == nil {
		return
	}
	p.executionState.Set(float64(state))
}
