package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/flowbench/internal/aggregate"
	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/corpus"
	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/solver"
)

// Sequential is the single-threaded Executor.
type Sequential struct {
	model   *config.Model
	runner  *solver.Runner
	tracker *Tracker
}

// New returns a Sequential executor for model. A nil tracker is replaced by
// a private one.
func New(model *config.Model, runner *solver.Runner, tracker *Tracker) *Sequential {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Sequential{model: model, runner: runner, tracker: tracker}
}

// Execute runs every solver over every case. All aggregate files are
// truncated before the first solver starts.
func (e *Sequential) Execute(ctx context.Context, cases []corpus.Case) (summary *Summary, err error) {
	logger := ctxlog.FromContext(ctx)
	solvers := e.model.EffectiveSolvers()

	writers := make([]*aggregate.Writer, 0, len(solvers))
	defer func() {
		for _, w := range writers {
			if cerr := w.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("executor: close %s: %w", w.Path(), cerr)
			}
		}
	}()
	for _, s := range solvers {
		w, err := aggregate.Create(e.model.ResultsPath(), s.Name, e.model.VertexCount, e.model.RecordFormat)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}

	summary = &Summary{Cases: len(cases), Solvers: make([]SolverSummary, len(solvers))}
	for i, s := range solvers {
		summary.Solvers[i] = SolverSummary{Name: s.Name, ResultPath: writers[i].Path(), Outcomes: make(map[string]int)}
	}

	e.tracker.SetPhase("solve", len(cases))
	logger.Info("Running tests.", "cases", len(cases), "solvers", len(solvers))

	for n, c := range cases {
		for i, s := range solvers {
			e.tracker.update(func(p *Progress) { p.Current = s.Name + ":" + c.Name })

			res := e.runner.Run(ctx, s, c)
			switch res.Outcome {
			case solver.LaunchFailed:
				return summary, res.Err
			case solver.Canceled:
				return summary, res.Err
			}

			if err := writers[i].Append(res); err != nil {
				return summary, err
			}
			summary.Solvers[i].Records = writers[i].Records()
			summary.Solvers[i].Outcomes[res.Outcome.String()]++

			if res.Outcome.Failed() {
				e.tracker.update(func(p *Progress) { p.Failures++ })
				if err := e.onFailure(logger, res); err != nil {
					return summary, err
				}
			}
		}
		e.tracker.update(func(p *Progress) { p.Completed = n + 1; p.Current = "" })
		logger.Info("Test completed.", "done", n+1, "total", len(cases), "case", c.Name)
	}

	e.tracker.update(func(p *Progress) { p.Phase = "done" })
	return summary, nil
}

// onFailure applies the exit policy to a failed invocation.
func (e *Sequential) onFailure(logger *slog.Logger, res solver.Result) error {
	attrs := []any{
		"solver", res.Solver,
		"case", res.Case.Name,
		"outcome", res.Outcome.String(),
		"exit_code", res.ExitCode,
		"error", res.Err,
	}
	switch e.model.ExitPolicy {
	case config.PolicyIgnore:
		logger.Debug("Solver invocation failed.", attrs...)
		return nil
	case config.PolicyFail:
		logger.Error("Solver invocation failed, stopping run.", attrs...)
		return fmt.Errorf("%w: %s on %s (%s): %v", ErrSolverFailed, res.Solver, res.Case.Name, res.Outcome, res.Err)
	default:
		logger.Warn("Solver invocation failed.", attrs...)
		return nil
	}
}
