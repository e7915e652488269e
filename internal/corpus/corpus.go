// Package corpus writes and rediscovers the batch of numbered graph files a
// benchmark run feeds to its solvers.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/fsutil"
	"github.com/specialistvlad/flowbench/internal/graphgen"
)

// NamePrefix prefixes every case file name; the case index follows it.
const NamePrefix = "graph_"

var (
	// ErrMissingCase is returned by Discover when an expected case file is absent.
	ErrMissingCase = errors.New("corpus: test case file missing")
	// ErrVertexMismatch is returned by Discover when a case file was written
	// for a different vertex count.
	ErrVertexMismatch = errors.New("corpus: test case vertex count mismatch")
)

// Case is one persisted graph instance, identified by its index in the batch.
type Case struct {
	Index int
	Name  string
	Path  string
}

// CaseName returns the file name used for the case at index.
func CaseName(index int) string {
	return NamePrefix + strconv.Itoa(index)
}

// NewCase returns the case at index inside dir.
func NewCase(dir string, index int) Case {
	name := CaseName(index)
	return Case{Index: index, Name: name, Path: filepath.Join(dir, name)}
}

// Builder writes a fixed-size batch of graph files into a directory.
type Builder struct {
	dir      string
	count    int
	vertices int
	gen      *graphgen.Generator
}

// NewBuilder returns a Builder producing count graphs of the given vertex
// count in dir.
func NewBuilder(dir string, count, vertices int, gen *graphgen.Generator) *Builder {
	return &Builder{dir: dir, count: count, vertices: vertices, gen: gen}
}

// Build writes cases 0..count-1 in order. Existing files with the same
// names are truncated. An interrupted build leaves the files already
// written in place.
func (b *Builder) Build(ctx context.Context) ([]Case, error) {
	logger := ctxlog.FromContext(ctx)
	if b.count < 1 {
		return nil, fmt.Errorf("corpus: instance count must be at least 1, got %d", b.count)
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("corpus: create directory %s: %w", b.dir, err)
	}

	logger.Info("Creating tests.", "dir", b.dir, "count", b.count, "vertices", b.vertices)
	cases := make([]Case, 0, b.count)
	for i := 0; i < b.count; i++ {
		if err := ctx.Err(); err != nil {
			return cases, err
		}
		c := NewCase(b.dir, i)
		if err := b.write(c); err != nil {
			return cases, err
		}
		cases = append(cases, c)
		logger.Info("Test created.", "done", i+1, "total", b.count, "file", c.Path)
	}
	return cases, nil
}

func (b *Builder) write(c Case) (err error) {
	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("corpus: create %s: %w", c.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("corpus: close %s: %w", c.Path, cerr)
		}
	}()

	if err := b.gen.Generate(f, b.vertices); err != nil {
		return fmt.Errorf("corpus: write %s: %w", c.Path, err)
	}
	return nil
}

// Discover returns cases 0..count-1 from a corpus previously written to dir.
// Every file's header must match vertices; only the first line is read.
func Discover(ctx context.Context, dir string, count, vertices int) ([]Case, error) {
	logger := ctxlog.FromContext(ctx)
	cases := make([]Case, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := NewCase(dir, i)
		ok, err := fsutil.IsRegularFile(c.Path)
		if err != nil {
			return nil, fmt.Errorf("corpus: stat %s: %w", c.Path, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", c.Path, ErrMissingCase)
		}
		if err := checkHeader(c, vertices); err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	logger.Debug("Reusing existing corpus.", "dir", dir, "count", len(cases), "vertices", vertices)
	return cases, nil
}

func checkHeader(c Case, vertices int) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("corpus: open %s: %w", c.Path, err)
	}
	defer f.Close()

	v, err := graphgen.ReadHeader(f)
	if err != nil {
		return fmt.Errorf("corpus: %s: %w", c.Path, err)
	}
	if v != vertices {
		return fmt.Errorf("%s has %d vertices, want %d: %w", c.Path, v, vertices, ErrVertexMismatch)
	}
	return nil
}
