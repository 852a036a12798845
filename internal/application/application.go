package application

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/api"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/config"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/metrics"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	metrics metrics.Collector
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) *App {
	store := storage.NewMemoryStorage()

	var collector metrics.Collector = metrics.Nop{}
	var metricsHandler http.Handler
	if cfg.EnableMetrics {
		registry := prometheus.NewRegistry()
		collector = metrics.NewPrometheus(registry, "packbench")
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	handler := api.NewHandler(store, cfg.Plan,
		api.WithMetrics(collector),
		api.WithSeed(cfg.Seed),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler := BuildRootHandler(apiRouter, metricsHandler)
	server := NewServer(cfg, rootHandler)

	return &App{
		storage: store,
		metrics: collector,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  server,
	}
}

// BuildRootHandler mounts the API under /api/, the Prometheus endpoint under
// /metrics when one is provided, and a JSON service index at the root.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(serviceIndex())
	}))

	return mux
}

func serviceIndex() map[string]any {
	return map[string]any{
		"service": "packbench",
		"endpoints": []string{
			"GET /api/health",
			"GET /api/solvers",
			"POST /api/solve",
			"POST /api/experiments",
			"GET /api/experiments",
			"GET /api/experiments/{id}",
			"GET /metrics",
		},
	}
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
