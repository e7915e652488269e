// Package executor runs every configured solver over a corpus, strictly one
// invocation at a time, and feeds each result to the solver's aggregate file.
//
// Per case the order is fixed: solver 1, append, solver 2, append, and so on,
// then the next case. A launch failure always ends the run. Non-zero exits
// and timeouts are appended like any other result and then handled by the
// run's exit policy.
package executor

import (
	"context"
	"errors"

	"github.com/specialistvlad/flowbench/internal/corpus"
)

var (
	// ErrSolverFailed is returned under the fail policy once a solver
	// invocation did not succeed.
	ErrSolverFailed = errors.New("executor: solver invocation failed")
)

// Executor is responsible for orchestrating the solver runs over a corpus.
type Executor interface {
	Execute(ctx context.Context, cases []corpus.Case) (*Summary, error)
}

// SolverSummary describes what one solver produced during a run.
type SolverSummary struct {
	Name       string `json:"name"`
	ResultPath string `json:"result_path"`
	Records    int    `json:"records"`
	// Outcomes counts invocations by solver.Outcome name.
	Outcomes map[string]int `json:"outcomes"`
}

// Summary is returned by Execute, also when the run stopped early.
type Summary struct {
	Cases   int             `json:"cases"`
	Solvers []SolverSummary `json:"solvers"`
}
