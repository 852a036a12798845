// Package packing implements the one-dimensional bin-packing heuristics:
// Next Fit, First Fit, and their "Decreasing" offline variants. All variants
// share the same container fit test, produce the same output shape, and
// signal an unsatisfiable item (one larger than the container capacity) with
// the same typed error, so their results are directly comparable.
package packing
