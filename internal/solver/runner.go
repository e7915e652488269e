package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sort"
	"time"

	"github.com/specialistvlad/flowbench/internal/corpus"
	"github.com/specialistvlad/flowbench/internal/ctxlog"
)

// DefaultWaitDelay bounds how long Wait keeps draining output after the
// process was killed or exited while a grandchild still holds its pipes.
const DefaultWaitDelay = 2 * time.Second

// Result is the outcome of one solver invocation on one case.
type Result struct {
	Solver   string
	Case     corpus.Case
	Outcome  Outcome
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	Err      error
}

// Runner executes solvers one invocation at a time.
type Runner struct {
	waitDelay time.Duration
}

// NewRunner returns a Runner. A non-positive waitDelay selects DefaultWaitDelay.
func NewRunner(waitDelay time.Duration) *Runner {
	if waitDelay <= 0 {
		waitDelay = DefaultWaitDelay
	}
	return &Runner{waitDelay: waitDelay}
}

// Run invokes s on c and blocks until the process exits, its timeout expires
// or ctx is cancelled. Failures are described by Result.Outcome and
// Result.Err rather than a separate error return.
func (r *Runner) Run(ctx context.Context, s Solver, c corpus.Case) Result {
	logger := ctxlog.FromContext(ctx).With("solver", s.Name, "case", c.Name)
	res := Result{Solver: s.Name, Case: c, ExitCode: -1}

	if err := ctx.Err(); err != nil {
		res.Outcome = Canceled
		res.Err = err
		return res
	}

	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.Timeout)
	}
	defer cancel()

	args := append(slices.Clone(s.Args), c.Path)
	cmd := exec.CommandContext(runCtx, s.Executable, args...)
	cmd.Env = environ(s.Env)
	cmd.WaitDelay = r.waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Starting solver.", "executable", s.Executable, "args", args, "timeout", s.Timeout)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		res.Outcome = LaunchFailed
		res.Err = fmt.Errorf("%w: %s: %w", ErrLaunch, s.Executable, err)
		return res
	}
	waitErr := cmd.Wait()

	res.Duration = time.Since(start)
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	res.Outcome, res.Err = classify(ctx, runCtx, cmd, waitErr)

	if len(res.Stderr) > 0 {
		logger.Debug("Solver wrote to stderr.", "stderr", string(res.Stderr))
	}
	logger.Debug("Solver finished.", "outcome", res.Outcome.String(), "exit_code", res.ExitCode, "duration", res.Duration, "bytes", len(res.Stdout))
	return res
}

// classify maps the Wait error and the two contexts onto an Outcome.
func classify(parent, runCtx context.Context, cmd *exec.Cmd, waitErr error) (Outcome, error) {
	switch {
	case parent.Err() != nil:
		return Canceled, parent.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return TimedOut, fmt.Errorf("solver: killed after timeout: %w", runCtx.Err())
	case waitErr == nil:
		return Succeeded, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return ExitedNonZero, waitErr
	}
	// The process exited on its own but a descendant kept the output pipes
	// open past WaitDelay. The exit status is still authoritative.
	if errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		return Succeeded, nil
	}
	return ExitedNonZero, waitErr
}

// environ returns nil (inherit) when extra is empty, otherwise the current
// environment followed by extra in key order.
func environ(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
