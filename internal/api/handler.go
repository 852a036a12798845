package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/experiment"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/generator"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/metrics"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/packing"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/report"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the solvers, the experiment driver, and report storage into
// HTTP handlers.
type Handler struct {
	storage     storage.Storage
	metrics     metrics.Collector
	defaultPlan experiment.Plan
	defaultSeed int64

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics sets the collector receiving solve measurements from sweeps
// started over HTTP.
func WithMetrics(c metrics.Collector) HandlerOption {
	return func(h *Handler) {
		if c != nil {
			h.metrics = c
		}
	}
}

// WithSeed sets the default seed for sweeps whose request does not pin one.
// Zero seeds from the wall clock.
func WithSeed(seed int64) HandlerOption {
	return func(h *Handler) {
		h.defaultSeed = seed
	}
}

// NewHandler constructs a Handler with the provided dependencies. The plan
// is the sweep executed when a request does not override it.
func NewHandler(store storage.Storage, plan experiment.Plan, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:     store,
		metrics:     metrics.Nop{},
		defaultPlan: plan,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListSolvers(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, solversResponse{Solvers: solverCatalog()})
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Solver.ID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "solver.id is required")
		return
	}
	for _, size := range req.Items {
		if size < 0 {
			writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("item size %d is negative", size))
			return
		}
	}

	cfg := packing.SolverConfig{ID: packing.Algorithm(req.Solver.ID), Sorted: req.Solver.Sorted}
	solver, err := packing.New(cfg, req.ContainerSize)
	if err != nil {
		switch {
		case errors.Is(err, packing.ErrUnknownAlgorithm):
			writeError(w, http.StatusBadRequest, "Unknown solver", err.Error())
		case errors.Is(err, packing.ErrInvalidContainerSize):
			writeError(w, http.StatusBadRequest, "Invalid container size", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	items := make([]packing.Item, 0, len(req.Items))
	for _, size := range req.Items {
		items = append(items, packing.Item{Size: size})
	}

	start := time.Now()
	containers, solveErr := solver.Solve(items)
	elapsed := time.Since(start)

	if solveErr != nil {
		if errors.Is(solveErr, packing.ErrItemTooLarge) {
			h.metrics.SolveFailed(solver.Name())
			suggestion := fmt.Sprintf("Increase container_size beyond %d or drop the oversized item", req.ContainerSize)
			writeError(w, http.StatusUnprocessableEntity, "Unsatisfiable instance", solveErr.Error(), suggestion)
			return
		}
		writeInternalError(w, solveErr)
		return
	}
	h.metrics.ObserveSolve(solver.Name(), elapsed)

	views := make([]containerView, 0, len(containers))
	for _, c := range containers {
		sizes := make([]int, 0, len(c.Items()))
		for _, it := range c.Items() {
			sizes = append(sizes, it.Size)
		}
		views = append(views, containerView{
			Items:     sizes,
			Used:      c.Used(),
			Remaining: c.Remaining(),
		})
	}

	resp := solveResponse{
		Solver:         solver.Name(),
		ContainerSize:  req.ContainerSize,
		Containers:     views,
		ContainersUsed: len(views),
		DurationMicros: elapsed.Microseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRunExperiment(w http.ResponseWriter, r *http.Request) {
	var req experimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	plan := h.buildPlan(req)
	seed := h.defaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}

	driver, err := experiment.New(plan,
		experiment.WithRand(newRand(seed)),
		experiment.WithMetrics(h.metrics),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sweep configuration", err.Error())
		return
	}

	sweep, err := driver.Run(r.Context())
	if err != nil {
		writeInternalError(w, fmt.Errorf("sweep interrupted: %w", err))
		return
	}

	stored, err := h.storage.SaveReport(plan, seed, report.NewDocument(sweep))
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newExperimentResponse(stored))
}

func (h *Handler) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	_ = r
	metas, err := h.storage.ListReports()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	views := make([]reportMetaView, 0, len(metas))
	for _, meta := range metas {
		views = append(views, reportMetaView{
			ID:         meta.ID,
			CreatedAt:  meta.CreatedAt,
			Seed:       meta.Seed,
			Iterations: meta.Iterations,
			Results:    meta.Results,
			Failures:   meta.Failures,
		})
	}
	writeJSON(w, http.StatusOK, experimentListResponse{Reports: views})
}

func (h *Handler) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	stored, err := h.storage.GetReport(id)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "Report not found", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newExperimentResponse(stored))
}

// buildPlan overlays the request on the handler's default plan. Provided
// lists replace their defaults wholesale.
func (h *Handler) buildPlan(req experimentRequest) experiment.Plan {
	plan := h.defaultPlan
	if req.Iterations != nil {
		plan.Iterations = *req.Iterations
	}
	if len(req.Solvers) > 0 {
		solvers := make([]packing.SolverConfig, 0, len(req.Solvers))
		for _, sel := range req.Solvers {
			solvers = append(solvers, packing.SolverConfig{ID: packing.Algorithm(sel.ID), Sorted: sel.Sorted})
		}
		plan.Solvers = solvers
	}
	if len(req.Settings) > 0 {
		plan.Settings = req.Settings
	}
	return plan
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func solverCatalog() []solverInfo {
	infos := make([]solverInfo, 0, 2*len(packing.Algorithms()))
	for _, alg := range packing.Algorithms() {
		for _, sorted := range []bool{false, true} {
			cfg := packing.SolverConfig{ID: alg, Sorted: sorted}
			infos = append(infos, solverInfo{
				ID:     string(alg),
				Sorted: sorted,
				Name:   cfg.Name(),
			})
		}
	}
	return infos
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type solverSelection struct {
	ID     string `json:"id"`
	Sorted bool   `json:"sorted"`
}

type solverInfo struct {
	ID     string `json:"id"`
	Sorted bool   `json:"sorted"`
	Name   string `json:"name"`
}

type solversResponse struct {
	Solvers []solverInfo `json:"solvers"`
}

type solveRequest struct {
	ContainerSize int             `json:"container_size"`
	Items         []int           `json:"items"`
	Solver        solverSelection `json:"solver"`
}

type containerView struct {
	Items     []int `json:"items"`
	Used      int   `json:"used"`
	Remaining int   `json:"remaining"`
}

type solveResponse struct {
	Solver         string          `json:"solver"`
	ContainerSize  int             `json:"container_size"`
	Containers     []containerView `json:"containers"`
	ContainersUsed int             `json:"containers_used"`
	DurationMicros int64           `json:"duration_us"`
}

type experimentRequest struct {
	Seed       *int64               `json:"seed"`
	Iterations *int                 `json:"iterations"`
	Solvers    []solverSelection    `json:"solvers"`
	Settings   []generator.Settings `json:"settings"`
}

type experimentResponse struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Seed      int64           `json:"seed"`
	Plan      experiment.Plan `json:"plan"`
	Report    report.Document `json:"report"`
}

func newExperimentResponse(stored storage.StoredReport) experimentResponse {
	return experimentResponse{
		ID:        stored.ID,
		CreatedAt: stored.CreatedAt,
		Seed:      stored.Seed,
		Plan:      stored.Plan,
		Report:    stored.Document,
	}
}

type reportMetaView struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Seed       int64     `json:"seed"`
	Iterations int       `json:"iterations"`
	Results    int       `json:"results"`
	Failures   int       `json:"failures"`
}

type experimentListResponse struct {
	Reports []reportMetaView `json:"reports"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
