package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mkaszkowiak-cs-put/optymalizacja-kombinatoryczna/internal/packing"
)

var (
	// ErrSizeRange is returned when the item size range is not a non-negative
	// half-open interval with min strictly below max.
	ErrSizeRange = errors.New("item size minimum must be non-negative and strictly below the maximum")
	// ErrContainerSize is returned when the container capacity is not a
	// positive integer.
	ErrContainerSize = errors.New("container size must be a positive integer")
	// ErrItemLimit is returned when the number of items to generate is
	// negative.
	ErrItemLimit = errors.New("item limit must not be negative")
)

// Settings describes one problem family of a sweep: the half-open item size
// range [ItemSizeMin, ItemSizeMax), the number of items per instance, and the
// capacity shared by all containers in a run.
type Settings struct {
	ItemSizeMin   int `yaml:"item_size_min" json:"item_size_min"`
	ItemSizeMax   int `yaml:"item_size_max" json:"item_size_max"`
	ItemLimit     int `yaml:"item_limit" json:"item_limit"`
	ContainerSize int `yaml:"container_size" json:"container_size"`
}

// Validate reports the first configuration error in the settings.
func (s Settings) Validate() error {
	if s.ItemSizeMin < 0 || s.ItemSizeMin >= s.ItemSizeMax {
		return fmt.Errorf("%w: got [%d, %d)", ErrSizeRange, s.ItemSizeMin, s.ItemSizeMax)
	}
	if s.ContainerSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrContainerSize, s.ContainerSize)
	}
	if s.ItemLimit < 0 {
		return fmt.Errorf("%w: got %d", ErrItemLimit, s.ItemLimit)
	}
	return nil
}

// Result is one generated problem instance: the shuffled item sequence fed to
// solvers, and the minimal container count achievable for it.
type Result struct {
	Items             []packing.Item
	OptimalContainers int
}

// Generator produces random instances whose optimal container count is known
// by construction rather than by solving. Sizes are drawn so that consecutive
// items fill one conceptual container after another to exactly its capacity:
// a draw that would overflow the running container is clamped to its
// remaining capacity, and the final item is clamped unconditionally. The
// finished sequence is shuffled, which hides the construction order from
// online heuristics without changing the optimum.
type Generator struct {
	settings Settings
	rng      *rand.Rand
}

// New creates a generator for the given settings. The random source is
// injected so tests can seed it; a nil rng falls back to a time-seeded one.
func New(settings Settings, rng *rand.Rand) (*Generator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{settings: settings, rng: rng}, nil
}

// Generate draws one fresh instance. Every call advances the random source,
// so repeated calls yield independently sampled instances.
func (g *Generator) Generate() Result {
	limit := g.settings.ItemLimit
	if limit == 0 {
		return Result{}
	}

	capacity := g.settings.ContainerSize
	span := g.settings.ItemSizeMax - g.settings.ItemSizeMin

	items := make([]packing.Item, 0, limit)
	optimal := 0
	fill := 0
	for i := 0; i < limit; i++ {
		size := g.settings.ItemSizeMin + g.rng.Intn(span)
		if fill+size > capacity || i == limit-1 {
			size = capacity - fill
		}
		items = append(items, packing.Item{Size: size})
		fill += size
		if fill == capacity {
			optimal++
			fill = 0
		}
	}

	g.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	return Result{Items: items, OptimalContainers: optimal}
}
