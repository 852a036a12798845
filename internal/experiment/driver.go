package experiment

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/generator"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/metrics"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/packing"
)

// solverFactory builds a solver for one plan entry.
type solverFactory func(cfg packing.SolverConfig, containerSize int) (packing.Solver, error)

// Driver executes a Plan sequentially and collects the outcomes.
type Driver struct {
	plan    Plan
	rng     *rand.Rand
	logger  *zap.Logger
	metrics metrics.Collector
	now     func() time.Time
	solvers solverFactory
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the structured logger for per-run progress and failures.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRand injects the random source used to generate every instance of the
// sweep, letting callers pin a seed for reproducible runs.
func WithRand(rng *rand.Rand) Option {
	return func(d *Driver) {
		if rng != nil {
			d.rng = rng
		}
	}
}

// WithMetrics sets the collector receiving solve and sweep measurements.
func WithMetrics(c metrics.Collector) Option {
	return func(d *Driver) {
		if c != nil {
			d.metrics = c
		}
	}
}

// WithNow overrides the time source for the solve timer. This is primarily
// useful for tests.
func WithNow(now func() time.Time) Option {
	return func(d *Driver) {
		if now != nil {
			d.now = now
		}
	}
}

// WithSolverFactory overrides how solver instances are built. This is
// primarily useful for tests that need a failing or instrumented solver.
func WithSolverFactory(f solverFactory) Option {
	return func(d *Driver) {
		if f != nil {
			d.solvers = f
		}
	}
}

// New validates the plan and builds a driver for it.
func New(plan Plan, opts ...Option) (*Driver, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		plan:    plan,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  zap.NewNop(),
		metrics: metrics.Nop{},
		now:     time.Now,
		solvers: packing.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run executes the sweep and returns one Result per (solver, setting,
// iteration) triple plus a Failure for every combination that could not be
// solved. The timer brackets only the solve call, so instance generation is
// never part of a measured duration. Run stops early only when ctx is done.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	started := d.now()
	var report Report

	for _, sc := range d.plan.Solvers {
		for _, st := range d.plan.Settings {
			solver, err := d.solvers(sc, st.ContainerSize)
			if err != nil {
				return report, err
			}
			gen, err := generator.New(st, d.rng)
			if err != nil {
				return report, err
			}

			d.logger.Debug("running combination",
				zap.String("solver", solver.Name()),
				zap.Int("item_limit", st.ItemLimit),
				zap.Int("container_size", st.ContainerSize),
				zap.Int("iterations", d.plan.Iterations),
			)

			for iter := 0; iter < d.plan.Iterations; iter++ {
				if err := ctx.Err(); err != nil {
					return report, err
				}

				instance := gen.Generate()

				start := d.now()
				containers, err := solver.Solve(instance.Items)
				elapsed := d.now().Sub(start)

				if err != nil {
					d.metrics.SolveFailed(solver.Name())
					d.logger.Warn("solve failed",
						zap.String("solver", solver.Name()),
						zap.Int("iteration", iter),
						zap.Error(err),
					)
					report.Failures = append(report.Failures, Failure{
						Solver:    solver.Name(),
						Settings:  st,
						Iteration: iter,
						Err:       err,
					})
					continue
				}

				d.metrics.ObserveSolve(solver.Name(), elapsed)
				result := Result{
					Solver:         solver.Name(),
					Algorithm:      sc.ID,
					Sorted:         sc.Sorted,
					Settings:       st,
					Iteration:      iter,
					ContainersUsed: len(containers),
					Optimal:        instance.OptimalContainers,
					Duration:       elapsed,
				}
				if instance.OptimalContainers > 0 {
					quality := float64(len(containers)) / float64(instance.OptimalContainers)
					result.Quality = &quality
				}
				report.Results = append(report.Results, result)
			}
		}
	}

	total := d.now().Sub(started)
	d.metrics.ExperimentCompleted(len(report.Results), len(report.Failures), total)
	d.logger.Info("sweep completed",
		zap.Int("results", len(report.Results)),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("elapsed", total),
	)
	return report, nil
}
