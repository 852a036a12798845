package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/experiment"
	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/report"
)

// maxStoredReports bounds the in-memory history; the oldest report is
// evicted when a new one would exceed it.
const maxStoredReports = 50

var (
	// ErrReportNotFound indicates no stored report carries the requested id.
	ErrReportNotFound = errors.New("report not found")
)

// StoredReport is a completed sweep retained for later retrieval.
type StoredReport struct {
	ID        string
	CreatedAt time.Time
	Seed      int64
	Plan      experiment.Plan
	Document  report.Document
}

// ReportMeta summarises a stored report for listings.
type ReportMeta struct {
	ID         string
	CreatedAt  time.Time
	Seed       int64
	Iterations int
	Results    int
	Failures   int
}

// Storage provides access to the experiment reports kept by the server.
type Storage interface {
	SaveReport(plan experiment.Plan, seed int64, doc report.Document) (StoredReport, error)
	GetReport(id string) (StoredReport, error)
	ListReports() ([]ReportMeta, error)
}

// MemoryStorage keeps reports in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	reports map[string]StoredReport
	order   []string
	now     func() time.Time
}

// NewMemoryStorage initialises an empty report store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		reports: make(map[string]StoredReport),
		now:     time.Now,
	}
}

// SaveReport assigns the report an id and timestamp and stores a defensive
// copy. When the store is full the oldest report is dropped.
func (s *MemoryStorage) SaveReport(plan experiment.Plan, seed int64, doc report.Document) (StoredReport, error) {
	id, err := newReportID()
	if err != nil {
		return StoredReport{}, fmt.Errorf("generate report id: %w", err)
	}

	stored := StoredReport{
		ID:        id,
		CreatedAt: s.now().UTC(),
		Seed:      seed,
		Plan:      clonePlan(plan),
		Document:  cloneDocument(doc),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[id] = stored
	s.order = append(s.order, id)
	for len(s.order) > maxStoredReports {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
	}

	return s.cloneStored(stored), nil
}

// GetReport returns a defensive copy of the stored report with the given id.
func (s *MemoryStorage) GetReport(id string) (StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.reports[id]
	if !ok {
		return StoredReport{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	return s.cloneStored(stored), nil
}

// ListReports returns metadata for every stored report in insertion order,
// oldest first.
func (s *MemoryStorage) ListReports() ([]ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metas := make([]ReportMeta, 0, len(s.order))
	for _, id := range s.order {
		stored := s.reports[id]
		metas = append(metas, ReportMeta{
			ID:         stored.ID,
			CreatedAt:  stored.CreatedAt,
			Seed:       stored.Seed,
			Iterations: stored.Plan.Iterations,
			Results:    len(stored.Document.Results),
			Failures:   len(stored.Document.Failures),
		})
	}
	return metas, nil
}

func (s *MemoryStorage) cloneStored(stored StoredReport) StoredReport {
	stored.Plan = clonePlan(stored.Plan)
	stored.Document = cloneDocument(stored.Document)
	return stored
}

func clonePlan(p experiment.Plan) experiment.Plan {
	p.Solvers = slices.Clone(p.Solvers)
	p.Settings = slices.Clone(p.Settings)
	return p
}

func cloneDocument(d report.Document) report.Document {
	d.Results = slices.Clone(d.Results)
	d.Failures = slices.Clone(d.Failures)
	d.Summaries = slices.Clone(d.Summaries)
	return d
}

func newReportID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
