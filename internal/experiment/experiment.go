// Package experiment runs benchmark sweeps of packing solvers over generated
// problem instances and aggregates the outcomes.
//
// A sweep is the cross product of solver variants, problem settings, and a
// fixed iteration count. Every combination yields either a Result with its
// container count, quality ratio, and solve duration, or a Failure when the
// instance could not be solved. A single failing combination never aborts
// the sweep.
package experiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/generator"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/packing"
)

// ErrInvalidPlan is returned when a sweep plan fails validation before any
// solver has run.
var ErrInvalidPlan = errors.New("invalid experiment plan")

// Plan describes a full sweep: every solver variant is run against every
// problem setting for the configured number of iterations.
type Plan struct {
	Solvers    []packing.SolverConfig `yaml:"solvers" json:"solvers"`
	Settings   []generator.Settings   `yaml:"settings" json:"settings"`
	Iterations int                    `yaml:"iterations" json:"iterations"`
}

// Validate checks the whole plan up front so misconfiguration aborts a run
// before anything is generated or solved.
func (p Plan) Validate() error {
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidPlan, p.Iterations)
	}
	if len(p.Solvers) == 0 {
		return fmt.Errorf("%w: no solvers configured", ErrInvalidPlan)
	}
	if len(p.Settings) == 0 {
		return fmt.Errorf("%w: no problem settings configured", ErrInvalidPlan)
	}
	for i, sc := range p.Solvers {
		if err := sc.Validate(); err != nil {
			return fmt.Errorf("solver %d: %w", i, err)
		}
	}
	for i, st := range p.Settings {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("setting %d: %w", i, err)
		}
	}
	return nil
}

// DefaultPlan returns the sweep used when no configuration overrides it:
// every solver variant against a single large uniform setting.
func DefaultPlan() Plan {
	return Plan{
		Solvers: []packing.SolverConfig{
			{ID: packing.NextFit},
			{ID: packing.NextFit, Sorted: true},
			{ID: packing.FirstFit},
			{ID: packing.FirstFit, Sorted: true},
		},
		Settings: []generator.Settings{
			{ItemSizeMin: 0, ItemSizeMax: 100, ItemLimit: 5000, ContainerSize: 400},
		},
		Iterations: 10,
	}
}

// Result is the outcome of one solver run on one generated instance.
//
// Quality is the ratio of containers used to the known optimum. It is nil
// when the instance is empty, because a ratio against zero optimal
// containers is undefined.
type Result struct {
	Solver         string
	Algorithm      packing.Algorithm
	Sorted         bool
	Settings       generator.Settings
	Iteration      int
	ContainersUsed int
	Optimal        int
	Quality        *float64
	Duration       time.Duration
}

// Failure records a combination that produced no result, along with the
// error that stopped it.
type Failure struct {
	Solver    string
	Settings  generator.Settings
	Iteration int
	Err       error
}

// Report holds everything a sweep produced, results and failures alike.
type Report struct {
	Results  []Result
	Failures []Failure
}
