package experiment

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/generator"
)

// Summary aggregates one (solver, setting) group of results across all its
// iterations.
type Summary struct {
	Solver        string
	Settings      generator.Settings
	Iterations    int
	Samples       int
	MeanQuality   float64
	StdDevQuality float64
	MinQuality    float64
	MaxQuality    float64
	MeanDuration  time.Duration
}

// Summaries groups the report's results by solver and settings, in
// first-seen order, and computes quality and timing statistics per group.
// Results without a defined quality count toward Iterations and the timing
// mean but are excluded from the quality statistics; Samples reports how
// many results contributed to them. The standard deviation is the sample
// standard deviation and is zero for fewer than two samples.
func (r Report) Summaries() []Summary {
	type groupKey struct {
		solver   string
		settings generator.Settings
	}

	var order []groupKey
	grouped := make(map[groupKey][]Result)
	for _, res := range r.Results {
		k := groupKey{solver: res.Solver, settings: res.Settings}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], res)
	}

	summaries := make([]Summary, 0, len(order))
	for _, k := range order {
		group := grouped[k]

		qualities := make([]float64, 0, len(group))
		var total time.Duration
		for _, res := range group {
			total += res.Duration
			if res.Quality != nil {
				qualities = append(qualities, *res.Quality)
			}
		}

		s := Summary{
			Solver:       k.solver,
			Settings:     k.settings,
			Iterations:   len(group),
			Samples:      len(qualities),
			MeanDuration: total / time.Duration(len(group)),
		}
		if len(qualities) > 0 {
			s.MeanQuality = stat.Mean(qualities, nil)
			s.MinQuality = floats.Min(qualities)
			s.MaxQuality = floats.Max(qualities)
		}
		if len(qualities) > 1 {
			s.StdDevQuality = stat.StdDev(qualities, nil)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
