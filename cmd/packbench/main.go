// Command packbench runs bin packing benchmark sweeps from the command line
// and writes the resulting report as JSON or CSV.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/config"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/experiment"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/logging"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/report"
)

func main() {
	kingpinApp := kingpin.New("packbench", "Bin packing benchmark harness - sweeps heuristic solvers over generated instances")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	output := kingpinApp.Flag("output", "Report destination file (stdout when omitted)").Short('o').String()
	format := kingpinApp.Flag("format", "Report format").Default("json").Enum("json", "csv")
	seedFlag := kingpinApp.Flag("seed", "Seed for generated instances (0 seeds from the clock)").Default("0").Int64()
	iterationsFlag := kingpinApp.Flag("iterations", "Iterations per sweep combination").Default("0").Int()
	verbose := kingpinApp.Flag("verbose", "Enable debug logging").Short('v').Bool()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	logger, err := logging.NewCLI(*verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}
	if *seedFlag != 0 {
		overrides.Seed = seedFlag
	}
	if *iterationsFlag > 0 {
		overrides.Iterations = iterationsFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, err := run(ctx, cfg, *output, *format, logger)
	if err != nil {
		logger.Fatal("sweep failed", zap.Error(err))
	}
	if code != 0 {
		_ = logger.Sync()
		os.Exit(code)
	}
}

// run executes the configured sweep and writes the report. It returns a
// non-zero exit code when the sweep recorded failures, so scripted callers
// can tell a degraded run from a clean one.
func run(ctx context.Context, cfg config.Config, output, format string, logger *zap.Logger) (int, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.Info("starting sweep",
		zap.Int64("seed", seed),
		zap.Int("solvers", len(cfg.Plan.Solvers)),
		zap.Int("settings", len(cfg.Plan.Settings)),
		zap.Int("iterations", cfg.Plan.Iterations),
	)

	driver, err := experiment.New(cfg.Plan,
		experiment.WithLogger(logger),
		experiment.WithRand(rand.New(rand.NewSource(seed))),
	)
	if err != nil {
		return 0, err
	}

	sweep, err := driver.Run(ctx)
	if err != nil {
		return 0, err
	}

	logSummaries(logger, sweep)

	if err := writeReport(output, format, sweep); err != nil {
		return 0, err
	}

	if len(sweep.Failures) > 0 {
		logger.Warn("sweep finished with failures", zap.Int("failures", len(sweep.Failures)))
		return 2, nil
	}
	return 0, nil
}

func logSummaries(logger *zap.Logger, sweep experiment.Report) {
	for _, s := range sweep.Summaries() {
		fields := []zap.Field{
			zap.String("solver", s.Solver),
			zap.Int("item_limit", s.Settings.ItemLimit),
			zap.Int("container_size", s.Settings.ContainerSize),
			zap.Int("iterations", s.Iterations),
			zap.Duration("mean_duration", s.MeanDuration),
		}
		if s.Samples > 0 {
			fields = append(fields,
				zap.Float64("mean_quality", s.MeanQuality),
				zap.Float64("stddev_quality", s.StdDevQuality),
				zap.Float64("min_quality", s.MinQuality),
				zap.Float64("max_quality", s.MaxQuality),
			)
		}
		logger.Info("solver summary", fields...)
	}
}

func writeReport(output, format string, sweep experiment.Report) (err error) {
	var w io.Writer = os.Stdout
	if output != "" {
		f, createErr := os.Create(output)
		if createErr != nil {
			return fmt.Errorf("create report file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close report file: %w", closeErr)
			}
		}()
		w = f
	}

	switch format {
	case "csv":
		return report.WriteCSV(w, sweep)
	default:
		return report.WriteJSON(w, sweep)
	}
}
