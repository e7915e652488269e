package graphgen

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
)

// Option configures a Generator.
type Option func(*Generator)

// WithCapacityRange sets the inclusive range capacities are drawn from.
// The range is checked by NewGenerator.
func WithCapacityRange(min, max int) Option {
	return func(g *Generator) {
		g.minCap = min
		g.maxCap = max
	}
}

// Generator builds random complete directed graphs from a single random source.
// It is not safe for concurrent use, which matches *rand.Rand.
type Generator struct {
	rng    *rand.Rand
	minCap int
	maxCap int
}

// NewSource returns a random source. A non-nil seed yields a deterministic
// PCG stream; a nil seed draws the PCG state from the runtime's entropy.
func NewSource(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	// The second PCG word is derived from the seed so a single number is
	// enough to reproduce a corpus.
	return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand, opts ...Option) (*Generator, error) {
	if rng == nil {
		return nil, ErrNilSource
	}
	g := &Generator{
		rng:    rng,
		minCap: DefaultMinCapacity,
		maxCap: DefaultMaxCapacity,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.minCap < 1 || g.maxCap < g.minCap {
		return nil, fmt.Errorf("min=%d max=%d: %w", g.minCap, g.maxCap, ErrInvalidCapacityRange)
	}
	return g, nil
}

// CapacityRange reports the inclusive range capacities are drawn from.
func (g *Generator) CapacityRange() (min, max int) {
	return g.minCap, g.maxCap
}

// Complete builds the complete directed graph on v vertices, without
// self-loops, with an independently drawn capacity on every edge. The whole
// edge list is held in memory; use Generate to write large graphs.
func (g *Generator) Complete(v int) (*Graph, error) {
	if err := CheckVertices(v); err != nil {
		return nil, fmt.Errorf("Complete: %w", err)
	}

	graph := &Graph{
		Vertices: v,
		Edges:    make([]Edge, 0, EdgeCount(v)),
	}
	for u := 0; u < v; u++ {
		for w := 0; w < v; w++ {
			if u == w {
				continue
			}
			graph.Edges = append(graph.Edges, Edge{From: u, To: w, Capacity: g.capacity()})
		}
	}
	return graph, nil
}

// Generate writes a complete graph on v vertices to w. Each edge is drawn
// and written in turn, so memory stays constant in v. The output is the same
// as Write of Complete(v) for the same random stream.
func (g *Generator) Generate(w io.Writer, v int) error {
	if err := CheckVertices(v); err != nil {
		return fmt.Errorf("Generate: %w", err)
	}

	bw := bufio.NewWriter(w)
	buf := appendHeader(make([]byte, 0, 64), v)
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	for u := 0; u < v; u++ {
		for t := 0; t < v; t++ {
			if u == t {
				continue
			}
			buf = appendEdge(buf[:0], Edge{From: u, To: t, Capacity: g.capacity()})
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// capacity draws uniformly from [minCap, maxCap].
func (g *Generator) capacity() int {
	return g.minCap + g.rng.IntN(g.maxCap-g.minCap+1)
}
