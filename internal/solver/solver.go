// Package solver runs external max-flow solver executables against corpus
// files and captures what they print.
//
// A solver is opaque: it receives the graph file path as its last argument
// and whatever it writes to standard output is kept verbatim. The runner adds
// what the bare subprocess call lacks, namely a bounded wait, forced
// termination on expiry and a Result that tells a clean exit apart from a
// non-zero exit, a timeout, a cancelled run and a failed launch.
package solver

import (
	"errors"
	"time"
)

// ErrLaunch marks a Result whose process could not be started.
var ErrLaunch = errors.New("solver: launch failed")

// Solver describes one external executable.
type Solver struct {
	// Name labels the solver in logs and result file names.
	Name string
	// Executable is the program path, resolved like exec.Command does.
	Executable string
	// Args are passed before the case path. Empty means the path is the
	// sole argument.
	Args []string
	// Env is added on top of the current process environment.
	Env map[string]string
	// Timeout bounds a single invocation; zero waits indefinitely.
	Timeout time.Duration
}

// Outcome classifies how an invocation ended.
type Outcome int

const (
	Succeeded Outcome = iota
	ExitedNonZero
	TimedOut
	Canceled
	LaunchFailed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "success"
	case ExitedNonZero:
		return "exit"
	case TimedOut:
		return "timeout"
	case Canceled:
		return "canceled"
	case LaunchFailed:
		return "launch_failure"
	default:
		return "unknown"
	}
}

// Failed reports whether the outcome is anything but a clean exit.
func (o Outcome) Failed() bool {
	return o != Succeeded
}
