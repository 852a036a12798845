package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a Collector backed by a Prometheus registry.
type Prometheus struct {
	solveDuration      *prometheus.HistogramVec
	solveFailures      *prometheus.CounterVec
	experiments        prometheus.Counter
	experimentResults  prometheus.Counter
	experimentFailures prometheus.Counter
	experimentDuration prometheus.Histogram
}

// Compile-time assertion that Prometheus implements Collector.
var _ Collector = (*Prometheus)(nil)

// NewPrometheus registers the collector's metrics with reg and returns the
// collector. A nil reg falls back to the default registerer, and an empty
// namespace defaults to "packbench".
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "packbench"
	}

	p := &Prometheus{
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of individual solver runs.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"solver"}),
		solveFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_failures_total",
			Help:      "Solver runs aborted by an unsatisfiable instance.",
		}, []string{"solver"}),
		experiments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiments_total",
			Help:      "Completed experiment sweeps.",
		}),
		experimentResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiment_results_total",
			Help:      "Results produced across all completed sweeps.",
		}),
		experimentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiment_failures_total",
			Help:      "Failures recorded across all completed sweeps.",
		}),
		experimentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "experiment_duration_seconds",
			Help:      "Wall-clock duration of whole experiment sweeps.",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 10),
		}),
	}

	reg.MustRegister(
		p.solveDuration,
		p.solveFailures,
		p.experiments,
		p.experimentResults,
		p.experimentFailures,
		p.experimentDuration,
	)
	return p
}

func (p *Prometheus) ObserveSolve(solver string, d time.Duration) {
	p.solveDuration.WithLabelValues(solver).Observe(d.Seconds())
}

func (p *Prometheus) SolveFailed(solver string) {
	p.solveFailures.WithLabelValues(solver).Inc()
}

func (p *Prometheus) ExperimentCompleted(results, failures int, d time.Duration) {
	p.experiments.Inc()
	p.experimentResults.Add(float64(results))
	p.experimentFailures.Add(float64(failures))
	p.experimentDuration.Observe(d.Seconds())
}
