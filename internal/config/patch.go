package config

import (
	"time"

	"github.com/specialistvlad/flowbench/internal/aggregate"
	"github.com/specialistvlad/flowbench/internal/solver"
)

// Patch is a partial Model. Nil fields leave the model untouched; a non-nil
// Solvers slice replaces the configured solvers entirely.
type Patch struct {
	InstanceCount   *int
	VertexCount     *int
	OutputDirectory *string
	TestsDir        *string
	ResultsDir      *string
	Seed            *uint64
	MinCapacity     *int
	MaxCapacity     *int
	Timeout         *time.Duration
	ExitPolicy      *string
	RecordFormat    *string
	Solvers         []solver.Solver
}

// Apply overlays p onto m. Only enumerated values are checked here; call
// Validate once every patch has been applied.
func (m *Model) Apply(p Patch) error {
	setInt(&m.InstanceCount, p.InstanceCount)
	setInt(&m.VertexCount, p.VertexCount)
	setInt(&m.MinCapacity, p.MinCapacity)
	setInt(&m.MaxCapacity, p.MaxCapacity)
	setString(&m.OutputDirectory, p.OutputDirectory)
	setString(&m.TestsDir, p.TestsDir)
	setString(&m.ResultsDir, p.ResultsDir)

	if p.Seed != nil {
		seed := *p.Seed
		m.Seed = &seed
	}
	if p.Timeout != nil {
		m.Timeout = *p.Timeout
	}
	if p.ExitPolicy != nil {
		policy, err := ParseExitPolicy(*p.ExitPolicy)
		if err != nil {
			return err
		}
		m.ExitPolicy = policy
	}
	if p.RecordFormat != nil {
		format, err := aggregate.ParseFormat(*p.RecordFormat)
		if err != nil {
			return err
		}
		m.RecordFormat = format
	}
	if p.Solvers != nil {
		m.Solvers = append([]solver.Solver(nil), p.Solvers...)
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
