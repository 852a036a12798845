package metrics

import "time"

// Collector receives measurements from experiment sweeps. The driver calls
// it sequentially; the Prometheus-backed collector is additionally safe for
// concurrent use.
type Collector interface {
	// ObserveSolve records one successful solve of the named solver variant.
	ObserveSolve(solver string, d time.Duration)
	// SolveFailed counts a solve attempt aborted by an unsatisfiable
	// instance.
	SolveFailed(solver string)
	// ExperimentCompleted records a finished sweep with its result and
	// failure counts.
	ExperimentCompleted(results, failures int, d time.Duration)
}

// Nop is a Collector that discards every measurement.
type Nop struct{}

// Compile-time assertion that Nop implements Collector.
var _ Collector = Nop{}

func (Nop) ObserveSolve(string, time.Duration)          {}
func (Nop) SolveFailed(string)                          {}
func (Nop) ExperimentCompleted(int, int, time.Duration) {}
