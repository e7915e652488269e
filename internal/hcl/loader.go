package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/solver"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL configuration loader. Expressions in the file
// see the process environment as the `env` object.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load parses and decodes the file at path into a validated model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	patch, err := translate(&root)
	if err != nil {
		return nil, fmt.Errorf("invalid HCL file %s: %w", path, err)
	}
	model, err := config.FromPatch(patch)
	if err != nil {
		return nil, fmt.Errorf("invalid HCL file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "instances", model.InstanceCount, "vertices", model.VertexCount, "solvers", len(model.Solvers))
	return model, nil
}

// evalContext exposes `env` and a handful of string functions to expressions.
func (l *Loader) evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"format":   stdlib.FormatFunc,
			"join":     stdlib.JoinFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}

// translate converts the decoded HCL schema into a config.Patch.
func translate(root *fileRoot) (config.Patch, error) {
	p := config.Patch{
		InstanceCount:   root.InstanceCount,
		VertexCount:     root.VertexCount,
		OutputDirectory: root.OutputDirectory,
		TestsDir:        root.TestsDir,
		ResultsDir:      root.ResultsDir,
		Seed:            root.Seed,
		ExitPolicy:      root.ExitPolicy,
		RecordFormat:    root.RecordFormat,
	}

	if root.Timeout != nil {
		d, err := time.ParseDuration(*root.Timeout)
		if err != nil {
			return p, fmt.Errorf("timeout: %w", err)
		}
		p.Timeout = &d
	}
	if root.Capacity != nil {
		p.MinCapacity = root.Capacity.Min
		p.MaxCapacity = root.Capacity.Max
	}

	if len(root.Solvers) > 0 {
		p.Solvers = make([]solver.Solver, 0, len(root.Solvers))
		for _, b := range root.Solvers {
			s := solver.Solver{
				Name:       b.Name,
				Executable: b.Executable,
				Args:       b.Args,
				Env:        b.Env,
			}
			if b.Timeout != nil {
				d, err := time.ParseDuration(*b.Timeout)
				if err != nil {
					return p, fmt.Errorf("solver %q: timeout: %w", b.Name, err)
				}
				s.Timeout = d
			}
			p.Solvers = append(p.Solvers, s)
		}
	}
	return p, nil
}
