package graphgen

import (
	"fmt"
	"math"
)

const (
	// DefaultMinCapacity is the smallest capacity drawn when no range is configured.
	DefaultMinCapacity = 1
	// DefaultMaxCapacity is the largest capacity drawn when no range is configured.
	DefaultMaxCapacity = 1000
)

// Edge is a directed, capacitated arc From -> To.
type Edge struct {
	From     int
	To       int
	Capacity int
}

// Graph is a directed graph on vertices 0..Vertices-1.
type Graph struct {
	Vertices int
	Edges    []Edge
}

// EdgeCount returns the number of edges of the complete directed graph on v
// vertices without self-loops. It returns -1 when that number overflows int.
func EdgeCount(v int) int {
	if v < 2 {
		return 0
	}
	if v-1 > math.MaxInt/v {
		return -1
	}
	return v * (v - 1)
}

// CheckVertices reports whether a complete graph on v vertices can be
// generated: at least one vertex and an edge count that fits in an int.
func CheckVertices(v int) error {
	if v < 1 {
		return fmt.Errorf("v=%d: %w", v, ErrTooFewVertices)
	}
	if EdgeCount(v) < 0 {
		return fmt.Errorf("v=%d: %w", v, ErrTooManyVertices)
	}
	return nil
}
