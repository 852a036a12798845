package packing

import (
	"fmt"
	"sort"
)

// Algorithm identifies one of the supported packing heuristics.
type Algorithm string

// Heuristic identifiers as they appear in sweep configurations and reports.
const (
	NextFit  Algorithm = "Next Fit"
	FirstFit Algorithm = "First Fit"
)

// Algorithms returns every supported heuristic identifier.
func Algorithms() []Algorithm {
	return []Algorithm{NextFit, FirstFit}
}

// SolverConfig selects a heuristic variant: the base algorithm and whether
// the item sequence is pre-sorted by decreasing size, turning the online
// heuristic into its offline "Decreasing" counterpart.
type SolverConfig struct {
	ID     Algorithm `yaml:"id" json:"id"`
	Sorted bool      `yaml:"sorted" json:"sorted"`
}

// Name returns the display name of the configured variant, such as
// "First Fit Decreasing".
func (c SolverConfig) Name() string {
	if c.Sorted {
		return string(c.ID) + " Decreasing"
	}
	return string(c.ID)
}

// Validate checks that the configured algorithm identifier is known.
func (c SolverConfig) Validate() error {
	switch c.ID {
	case NextFit, FirstFit:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(c.ID))
	}
}

// Solver packs an ordered item sequence into containers of a fixed capacity.
// An item larger than the capacity itself makes the instance unsatisfiable;
// every implementation reports that by returning an error wrapping
// ErrItemTooLarge instead of dropping the item.
type Solver interface {
	Name() string
	Solve(items []Item) ([]*Container, error)
}

// New constructs the solver variant selected by cfg. Every container opened
// by the solver uses containerSize as its capacity.
func New(cfg SolverConfig, containerSize int) (Solver, error) {
	if containerSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidContainerSize, containerSize)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var s Solver
	switch cfg.ID {
	case NextFit:
		s = &nextFit{containerSize: containerSize}
	case FirstFit:
		s = &firstFit{containerSize: containerSize}
	}
	if cfg.Sorted {
		s = &decreasing{inner: s}
	}
	return s, nil
}

// nextFit keeps exactly one open container. Once an item is rejected, the
// container is closed for good and a fresh one becomes current. Each item
// touches at most two containers, so a solve is O(n).
type nextFit struct {
	containerSize int
}

func (s *nextFit) Name() string {
	return string(NextFit)
}

func (s *nextFit) Solve(items []Item) ([]*Container, error) {
	if len(items) == 0 {
		return nil, nil
	}

	current := NewContainer(s.containerSize)
	containers := []*Container{current}
	for _, it := range items {
		if current.Add(it) {
			continue
		}
		current = NewContainer(s.containerSize)
		if !current.Add(it) {
			return nil, rejectedByEmpty(s.Name(), it, s.containerSize)
		}
		containers = append(containers, current)
	}
	return containers, nil
}

// firstFit keeps every container open in creation order and places each item
// into the first one that accepts it. The scan is linear per item, O(n^2)
// overall; a search structure keyed by remaining capacity would bring this to
// O(n log n) without changing any placement.
type firstFit struct {
	containerSize int
}

func (s *firstFit) Name() string {
	return string(FirstFit)
}

func (s *firstFit) Solve(items []Item) ([]*Container, error) {
	if len(items) == 0 {
		return nil, nil
	}

	containers := []*Container{NewContainer(s.containerSize)}
	for _, it := range items {
		placed := false
		for _, c := range containers {
			if c.Add(it) {
				placed = true
				break
			}
		}
		if placed {
			continue
		}
		fresh := NewContainer(s.containerSize)
		if !fresh.Add(it) {
			return nil, rejectedByEmpty(s.Name(), it, s.containerSize)
		}
		containers = append(containers, fresh)
	}
	return containers, nil
}

// decreasing wraps a base solver with the offline preprocessing step: the
// items are stably sorted by descending size before packing, ties keeping
// their original order. The input slice is never mutated. Sorting happens
// inside Solve, so a timed Solve call covers the full cost of the offline
// variant.
type decreasing struct {
	inner Solver
}

func (d *decreasing) Name() string {
	return d.inner.Name() + " Decreasing"
}

func (d *decreasing) Solve(items []Item) ([]*Container, error) {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
	})
	return d.inner.Solve(sorted)
}

func rejectedByEmpty(solver string, it Item, containerSize int) error {
	return fmt.Errorf("%s: %w: item size %d, container size %d", solver, ErrItemTooLarge, it.Size, containerSize)
}
