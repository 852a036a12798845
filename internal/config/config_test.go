package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/packing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "SEED", "ITERATIONS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected zero seed by default, got %d", cfg.Seed)
	}
	if got, want := len(cfg.Plan.Solvers), 4; got != want {
		t.Fatalf("expected %d default solver variants, got %d", want, got)
	}
	if cfg.Plan.Iterations != 10 {
		t.Fatalf("unexpected default iterations: %d", cfg.Plan.Iterations)
	}
	if len(cfg.Plan.Settings) != 1 || cfg.Plan.Settings[0].ItemLimit != 5000 {
		t.Fatalf("unexpected default settings: %+v", cfg.Plan.Settings)
	}
	if !cfg.EnableMetrics {
		t.Fatalf("expected metrics enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SEED", "1234")
	t.Setenv("ITERATIONS", "3")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.Seed != 1234 {
		t.Fatalf("expected overridden seed, got %d", cfg.Seed)
	}
	if cfg.Plan.Iterations != 3 {
		t.Fatalf("expected overridden iterations, got %d", cfg.Plan.Iterations)
	}
	if cfg.RateLimitRPS != 5.5 || cfg.RateLimitBurst != 7 {
		t.Fatalf("unexpected rate limit: rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadYAMLConfig(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `port: "8090"
seed: 42
enable_request_logging: false
rate_limit:
  rps: 12
  burst: 24
sweep:
  iterations: 5
  solvers:
    - id: "First Fit"
      sorted: true
  settings:
    - item_size_min: 1
      item_size_max: 9
      item_limit: 200
      container_size: 25
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8090" {
		t.Fatalf("expected port from file, got %s", cfg.Port)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed from file, got %d", cfg.Seed)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled by file")
	}
	if !cfg.EnableMetrics {
		t.Fatalf("expected metrics to stay enabled when the file omits the key")
	}
	if cfg.RateLimitRPS != 12 || cfg.RateLimitBurst != 24 {
		t.Fatalf("unexpected rate limit: rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.Plan.Iterations != 5 {
		t.Fatalf("expected iterations from file, got %d", cfg.Plan.Iterations)
	}
	if len(cfg.Plan.Solvers) != 1 || cfg.Plan.Solvers[0].Name() != "First Fit Decreasing" {
		t.Fatalf("unexpected solvers: %+v", cfg.Plan.Solvers)
	}
	if len(cfg.Plan.Settings) != 1 || cfg.Plan.Settings[0].ContainerSize != 25 {
		t.Fatalf("unexpected settings: %+v", cfg.Plan.Settings)
	}
}

func TestLoadCLIPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("SEED", "1")

	port := "9200"
	seed := int64(77)
	iterations := 2
	cfg, err := Load(&CLIOverrides{Port: &port, Seed: &seed, Iterations: &iterations})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9200" {
		t.Fatalf("expected CLI port to win, got %s", cfg.Port)
	}
	if cfg.Seed != 77 {
		t.Fatalf("expected CLI seed to win, got %d", cfg.Seed)
	}
	if cfg.Plan.Iterations != 2 {
		t.Fatalf("expected CLI iterations to win, got %d", cfg.Plan.Iterations)
	}
}

func TestLoadRejectsInvalidSweep(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `sweep:
  solvers:
    - id: "Best Fit"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := Load(&CLIOverrides{ConfigFile: path})
	if !errors.Is(err, packing.ErrUnknownAlgorithm) {
		t.Fatalf("expected unknown algorithm error, got %v", err)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
