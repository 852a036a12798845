package packing

import "errors"

var (
	// ErrItemTooLarge is returned when an item exceeds the container capacity,
	// so even a freshly opened container rejects it and no packing exists.
	ErrItemTooLarge = errors.New("item does not fit an empty container")
	// ErrUnknownAlgorithm is returned for a solver identifier outside the
	// supported set.
	ErrUnknownAlgorithm = errors.New("unknown packing algorithm")
	// ErrInvalidContainerSize is returned when the shared container capacity
	// is not a positive integer.
	ErrInvalidContainerSize = errors.New("container size must be a positive integer")
)
