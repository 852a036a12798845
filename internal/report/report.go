// Package report serializes experiment outcomes to JSON and CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/experiment"
)

// Row is one experiment result flattened for serialization. Quality is nil
// for empty instances and serializes as JSON null and as an empty CSV field.
type Row struct {
	Solver         string   `json:"solver"`
	Algorithm      string   `json:"id"`
	Sorted         bool     `json:"sorted"`
	ItemSizeMin    int      `json:"item_size_min"`
	ItemSizeMax    int      `json:"item_size_max"`
	ItemLimit      int      `json:"item_limit"`
	ContainerSize  int      `json:"container_size"`
	Iteration      int      `json:"iteration"`
	ContainersUsed int      `json:"containers_used"`
	Optimal        int      `json:"optimal_containers"`
	Quality        *float64 `json:"quality"`
	DurationMicros int64    `json:"duration_us"`
}

// FailureRow is one recorded failure flattened for serialization.
type FailureRow struct {
	Solver        string `json:"solver"`
	ItemSizeMin   int    `json:"item_size_min"`
	ItemSizeMax   int    `json:"item_size_max"`
	ItemLimit     int    `json:"item_limit"`
	ContainerSize int    `json:"container_size"`
	Iteration     int    `json:"iteration"`
	Error         string `json:"error"`
}

// SummaryRow is one aggregated (solver, setting) group.
type SummaryRow struct {
	Solver         string  `json:"solver"`
	ItemSizeMin    int     `json:"item_size_min"`
	ItemSizeMax    int     `json:"item_size_max"`
	ItemLimit      int     `json:"item_limit"`
	ContainerSize  int     `json:"container_size"`
	Iterations     int     `json:"iterations"`
	Samples        int     `json:"samples"`
	MeanQuality    float64 `json:"mean_quality"`
	StdDevQuality  float64 `json:"stddev_quality"`
	MinQuality     float64 `json:"min_quality"`
	MaxQuality     float64 `json:"max_quality"`
	MeanDurationUS int64   `json:"mean_duration_us"`
}

// Document is the JSON report layout.
type Document struct {
	Results   []Row        `json:"results"`
	Failures  []FailureRow `json:"failures"`
	Summaries []SummaryRow `json:"summaries"`
}

// NewRow flattens a single result.
func NewRow(res experiment.Result) Row {
	return Row{
		Solver:         res.Solver,
		Algorithm:      string(res.Algorithm),
		Sorted:         res.Sorted,
		ItemSizeMin:    res.Settings.ItemSizeMin,
		ItemSizeMax:    res.Settings.ItemSizeMax,
		ItemLimit:      res.Settings.ItemLimit,
		ContainerSize:  res.Settings.ContainerSize,
		Iteration:      res.Iteration,
		ContainersUsed: res.ContainersUsed,
		Optimal:        res.Optimal,
		Quality:        res.Quality,
		DurationMicros: res.Duration.Microseconds(),
	}
}

// NewDocument flattens a full report, summaries included. All slices are
// non-nil so empty sections serialize as empty JSON arrays.
func NewDocument(rep experiment.Report) Document {
	doc := Document{
		Results:   make([]Row, 0, len(rep.Results)),
		Failures:  make([]FailureRow, 0, len(rep.Failures)),
		Summaries: make([]SummaryRow, 0),
	}
	for _, res := range rep.Results {
		doc.Results = append(doc.Results, NewRow(res))
	}
	for _, failure := range rep.Failures {
		doc.Failures = append(doc.Failures, FailureRow{
			Solver:        failure.Solver,
			ItemSizeMin:   failure.Settings.ItemSizeMin,
			ItemSizeMax:   failure.Settings.ItemSizeMax,
			ItemLimit:     failure.Settings.ItemLimit,
			ContainerSize: failure.Settings.ContainerSize,
			Iteration:     failure.Iteration,
			Error:         failure.Err.Error(),
		})
	}
	for _, s := range rep.Summaries() {
		doc.Summaries = append(doc.Summaries, SummaryRow{
			Solver:         s.Solver,
			ItemSizeMin:    s.Settings.ItemSizeMin,
			ItemSizeMax:    s.Settings.ItemSizeMax,
			ItemLimit:      s.Settings.ItemLimit,
			ContainerSize:  s.Settings.ContainerSize,
			Iterations:     s.Iterations,
			Samples:        s.Samples,
			MeanQuality:    s.MeanQuality,
			StdDevQuality:  s.StdDevQuality,
			MinQuality:     s.MinQuality,
			MaxQuality:     s.MaxQuality,
			MeanDurationUS: s.MeanDuration.Microseconds(),
		})
	}
	return doc
}

// WriteJSON writes the full report, failures and summaries included, as
// indented JSON.
func WriteJSON(w io.Writer, rep experiment.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(rep)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// csvHeader lists the CSV columns in output order. It must stay in step
// with Row.
var csvHeader = []string{
	"solver",
	"id",
	"sorted",
	"item_size_min",
	"item_size_max",
	"item_limit",
	"container_size",
	"iteration",
	"containers_used",
	"optimal_containers",
	"quality",
	"duration_us",
}

// WriteCSV writes a header line and one row per result. Failures and
// summaries have no tabular form here; use the JSON writer for them.
func WriteCSV(w io.Writer, rep experiment.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, res := range rep.Results {
		row := NewRow(res)
		quality := ""
		if row.Quality != nil {
			quality = strconv.FormatFloat(*row.Quality, 'f', -1, 64)
		}
		record := []string{
			row.Solver,
			row.Algorithm,
			strconv.FormatBool(row.Sorted),
			strconv.Itoa(row.ItemSizeMin),
			strconv.Itoa(row.ItemSizeMax),
			strconv.Itoa(row.ItemLimit),
			strconv.Itoa(row.ContainerSize),
			strconv.Itoa(row.Iteration),
			strconv.Itoa(row.ContainersUsed),
			strconv.Itoa(row.Optimal),
			quality,
			strconv.FormatInt(row.DurationMicros, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
