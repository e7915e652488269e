// Package yamlconf provides the YAML implementation of config.Loader. The
// document mirrors the HCL layout: top-level run settings, a `capacity`
// mapping and an ordered `solvers` list. Omitting `solvers` keeps the
// default solvers; `solvers: []` is an error.
package yamlconf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/solver"
	"gopkg.in/yaml.v3"
)

type document struct {
	InstanceCount   *int         `yaml:"instance_count"`
	VertexCount     *int         `yaml:"vertex_count"`
	OutputDirectory *string      `yaml:"output_directory"`
	TestsDir        *string      `yaml:"tests_dir"`
	ResultsDir      *string      `yaml:"results_dir"`
	Seed            *uint64      `yaml:"seed"`
	Timeout         *string      `yaml:"timeout"`
	ExitPolicy      *string      `yaml:"exit_policy"`
	RecordFormat    *string      `yaml:"record_format"`
	Capacity        *capacity    `yaml:"capacity"`
	Solvers         *[]solverDoc `yaml:"solvers"`
}

type capacity struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

type solverDoc struct {
	Name       string            `yaml:"name"`
	Executable string            `yaml:"executable"`
	Args       []string          `yaml:"args"`
	Env        map[string]string `yaml:"env"`
	Timeout    string            `yaml:"timeout"`
}

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes the file at path into a validated model. Unknown keys are
// rejected.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	patch, err := doc.patch()
	if err != nil {
		return nil, fmt.Errorf("invalid YAML file %s: %w", path, err)
	}
	model, err := config.FromPatch(patch)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML file %s: %w", path, err)
	}

	logger.Debug("YAML loading complete.", "instances", model.InstanceCount, "vertices", model.VertexCount, "solvers", len(model.Solvers))
	return model, nil
}

func (d *document) patch() (config.Patch, error) {
	p := config.Patch{
		InstanceCount:   d.InstanceCount,
		VertexCount:     d.VertexCount,
		OutputDirectory: d.OutputDirectory,
		TestsDir:        d.TestsDir,
		ResultsDir:      d.ResultsDir,
		Seed:            d.Seed,
		ExitPolicy:      d.ExitPolicy,
		RecordFormat:    d.RecordFormat,
	}
	if d.Timeout != nil {
		t, err := time.ParseDuration(*d.Timeout)
		if err != nil {
			return p, fmt.Errorf("timeout: %w", err)
		}
		p.Timeout = &t
	}
	if d.Capacity != nil {
		p.MinCapacity = d.Capacity.Min
		p.MaxCapacity = d.Capacity.Max
	}
	// A present but empty list replaces the defaults with nothing, which
	// Validate rejects.
	if d.Solvers != nil {
		p.Solvers = make([]solver.Solver, 0, len(*d.Solvers))
		for _, s := range *d.Solvers {
			out := solver.Solver{Name: s.Name, Executable: s.Executable, Args: s.Args, Env: s.Env}
			if s.Timeout != "" {
				t, err := time.ParseDuration(s.Timeout)
				if err != nil {
					return p, fmt.Errorf("solver %q: timeout: %w", s.Name, err)
				}
				out.Timeout = t
			}
			p.Solvers = append(p.Solvers, out)
		}
	}
	return p, nil
}
