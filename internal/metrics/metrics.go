package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of solver runs and comparisons
type Metrics struct {
	SolverRuns        *prometheus.CounterVec
	SolverDuration    *prometheus.HistogramVec
	SolverMakespan    *prometheus.HistogramVec
	SolverEvaluations *prometheus.CounterVec

	Comparisons *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with the given registerer
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		SolverRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobsched_solver_runs_total",
				Help: "Total number of solver runs by outcome",
			},
			[]string{"algorithm", "outcome"},
		),
		SolverDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobsched_solver_duration_seconds",
				Help:    "Wall-clock duration of a solver run",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"algorithm"},
		),
		SolverMakespan: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobsched_solver_makespan",
				Help:    "Makespan of feasible schedules",
				Buckets: prometheus.LinearBuckets(0, 5, 12),
			},
			[]string{"algorithm"},
		),
		SolverEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobsched_solver_evaluations_total",
				Help: "Complete schedules evaluated by solvers",
			},
			[]string{"algorithm"},
		),
		Comparisons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobsched_comparisons_total",
				Help: "Instance comparisons by winner",
			},
			[]string{"winner"},
		),
	}
}

// NewRegistry creates a new Prometheus registry with metrics
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return reg, m
}

// ObserveRun records one solver run; outcome is "feasible", "infeasible" or "error"
func (m *Metrics) ObserveRun(algorithm, outcome string, seconds float64, makespan, evaluations int) {
	if m == nil {
		return
	}
	m.SolverRuns.WithLabelValues(algorithm, outcome).Inc()
	m.SolverDuration.WithLabelValues(algorithm).Observe(seconds)
	m.SolverEvaluations.WithLabelValues(algorithm).Add(float64(evaluations))
	if outcome == "feasible" {
		m.SolverMakespan.WithLabelValues(algorithm).Observe(float64(makespan))
	}
}

// ObserveComparison records the winner of one instance comparison
func (m *Metrics) ObserveComparison(winner string) {
	if m == nil {
		return
	}
	m.Comparisons.WithLabelValues(winner).Inc()
}

// WriteFile dumps all metrics of the gatherer in the text exposition format
func WriteFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
