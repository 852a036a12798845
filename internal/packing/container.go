package packing

// Item is an indivisible unit of non-negative size, assigned to exactly one
// container by a solver.
type Item struct {
	Size int
}

// Container is a single bin with a fixed capacity and a monotonically growing
// fill level. Containers are created through NewContainer; the zero value is
// unusable.
type Container struct {
	capacity int
	used     int
	items    []Item
}

// NewContainer creates an empty container with the given capacity.
func NewContainer(capacity int) *Container {
	return &Container{capacity: capacity}
}

// Add attempts to place the item into the container. It records the item and
// reports true when the fill level stays within capacity; otherwise it
// reports false and leaves the container unchanged.
func (c *Container) Add(it Item) bool {
	if c.used+it.Size > c.capacity {
		return false
	}
	c.used += it.Size
	c.items = append(c.items, it)
	return true
}

// Capacity returns the fixed capacity of the container.
func (c *Container) Capacity() int {
	return c.capacity
}

// Used returns the combined size of the items placed so far.
func (c *Container) Used() int {
	return c.used
}

// Remaining returns the capacity still available in the container.
func (c *Container) Remaining() int {
	return c.capacity - c.used
}

// Items returns a copy of the placed items in placement order.
func (c *Container) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}
