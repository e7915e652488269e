// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the run model and its defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/flowbench/internal/aggregate"
	"github.com/specialistvlad/flowbench/internal/fsutil"
	"github.com/specialistvlad/flowbench/internal/graphgen"
	"github.com/specialistvlad/flowbench/internal/solver"
)

// ErrInvalid wraps every validation failure reported by Model.Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// ExitPolicy decides what a failed solver invocation does to the run.
type ExitPolicy string

const (
	// PolicyIgnore records failures and logs them at debug level.
	PolicyIgnore ExitPolicy = "ignore"
	// PolicyWarn records failures and logs them at warn level.
	PolicyWarn ExitPolicy = "warn"
	// PolicyFail records the failing invocation and stops the run.
	PolicyFail ExitPolicy = "fail"
)

// ParseExitPolicy validates a policy name.
func ParseExitPolicy(s string) (ExitPolicy, error) {
	switch p := ExitPolicy(strings.ToLower(s)); p {
	case PolicyIgnore, PolicyWarn, PolicyFail:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown exit policy %q: must be 'ignore', 'warn' or 'fail'", ErrInvalid, s)
	}
}

// Built-in defaults.
const (
	DefaultInstanceCount   = 10
	DefaultVertexCount     = 100
	DefaultOutputDirectory = "."
	DefaultTestsDir        = "tests"
	DefaultResultsDir      = "data"
)

// Model is the complete description of a benchmark run.
type Model struct {
	InstanceCount   int
	VertexCount     int
	OutputDirectory string
	// TestsDir and ResultsDir are resolved against OutputDirectory unless absolute.
	TestsDir     string
	ResultsDir   string
	Seed         *uint64
	MinCapacity  int
	MaxCapacity  int
	Timeout      time.Duration
	ExitPolicy   ExitPolicy
	RecordFormat aggregate.Format
	Solvers      []solver.Solver
}

// DefaultSolvers returns the push-relabel and Ford-Fulkerson executables the
// harness expects under ./bin.
func DefaultSolvers() []solver.Solver {
	return []solver.Solver{
		{Name: "push_relabel", Executable: "./bin/pr"},
		{Name: "ford_fulkerson", Executable: "./bin/ff"},
	}
}

// Default returns the model used when no configuration is supplied.
func Default() *Model {
	return &Model{
		InstanceCount:   DefaultInstanceCount,
		VertexCount:     DefaultVertexCount,
		OutputDirectory: DefaultOutputDirectory,
		TestsDir:        DefaultTestsDir,
		ResultsDir:      DefaultResultsDir,
		MinCapacity:     graphgen.DefaultMinCapacity,
		MaxCapacity:     graphgen.DefaultMaxCapacity,
		ExitPolicy:      PolicyWarn,
		RecordFormat:    aggregate.Raw,
		Solvers:         DefaultSolvers(),
	}
}

// TestsPath is the directory corpus files are written to.
func (m *Model) TestsPath() string {
	return fsutil.ResolveDir(m.OutputDirectory, m.TestsDir)
}

// ResultsPath is the directory aggregate result files are written to.
func (m *Model) ResultsPath() string {
	return fsutil.ResolveDir(m.OutputDirectory, m.ResultsDir)
}

// EffectiveSolvers returns the solvers with the run-wide Timeout filled in
// wherever a solver does not set its own.
func (m *Model) EffectiveSolvers() []solver.Solver {
	out := make([]solver.Solver, len(m.Solvers))
	for i, s := range m.Solvers {
		if s.Timeout == 0 {
			s.Timeout = m.Timeout
		}
		out[i] = s
	}
	return out
}

// Validate checks the model for values no run can work with.
func (m *Model) Validate() error {
	var errs []error
	if m.InstanceCount < 1 {
		errs = append(errs, fmt.Errorf("instance_count must be at least 1, got %d", m.InstanceCount))
	}
	if m.VertexCount < 1 {
		errs = append(errs, fmt.Errorf("vertex_count must be at least 1, got %d", m.VertexCount))
	} else if err := graphgen.CheckVertices(m.VertexCount); err != nil {
		errs = append(errs, fmt.Errorf("vertex_count: %w", err))
	}
	if m.MinCapacity < 1 || m.MaxCapacity < m.MinCapacity {
		errs = append(errs, fmt.Errorf("capacity range must satisfy 1 <= min <= max, got [%d, %d]", m.MinCapacity, m.MaxCapacity))
	}
	if m.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", m.Timeout))
	}
	if _, err := ParseExitPolicy(string(m.ExitPolicy)); err != nil {
		errs = append(errs, err)
	}
	if _, err := aggregate.ParseFormat(string(m.RecordFormat)); err != nil {
		errs = append(errs, err)
	}
	if len(m.Solvers) == 0 {
		errs = append(errs, errors.New("at least one solver is required"))
	}

	seen := make(map[string]bool, len(m.Solvers))
	for i, s := range m.Solvers {
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Errorf("solver #%d has no name", i))
		case strings.ContainsAny(s.Name, `/\`):
			errs = append(errs, fmt.Errorf("solver %q: name must not contain path separators", s.Name))
		case seen[s.Name]:
			errs = append(errs, fmt.Errorf("solver %q is defined more than once", s.Name))
		}
		seen[s.Name] = true
		if s.Executable == "" {
			errs = append(errs, fmt.Errorf("solver %q has no executable", s.Name))
		}
		if s.Timeout < 0 {
			errs = append(errs, fmt.Errorf("solver %q: timeout must not be negative", s.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
