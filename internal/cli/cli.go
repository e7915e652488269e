package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/flowbench/internal/app"
	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/solver"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// solverList collects repeated -solver name=path flags.
type solverList []solver.Solver

func (l *solverList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, 0, len(*l))
	for _, s := range *l {
		parts = append(parts, s.Name+"="+s.Executable)
	}
	return strings.Join(parts, ",")
}

func (l *solverList) Set(v string) error {
	name, path, ok := strings.Cut(v, "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return errors.New("expected name=path")
	}
	*l = append(*l, solver.Solver{Name: name, Executable: path})
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowbench", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
flowbench - generates random flow networks and runs max-flow solvers on them.

Usage:
  flowbench [options] [run|generate|solve|init] [INIT_PATH]

Commands:
  run       Generate a fresh test corpus and run every solver on it (default).
  generate  Only write the test corpus.
  solve     Run the solvers on an existing corpus.
  init      Write a configuration template to INIT_PATH (default flowbench.hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	var (
		solvers solverList
		patch   config.Patch
	)
	configFlag := flagSet.String("config", "", "Path to a .hcl/.yaml config file, or a directory holding one .hcl file.")
	cFlag := flagSet.String("c", "", "Path to the config file (shorthand).")
	instances := flagSet.Int("instances", config.DefaultInstanceCount, "Number of test graphs.")
	vertices := flagSet.Int("vertices", config.DefaultVertexCount, "Vertices per test graph.")
	seed := flagSet.Uint64("seed", 0, "Random seed for the corpus. Unset draws a fresh seed.")
	out := flagSet.String("out", config.DefaultOutputDirectory, "Directory holding the tests and results directories.")
	timeout := flagSet.Duration("timeout", 0, "Per-invocation solver timeout, e.g. 30s. 0 waits indefinitely.")
	exitPolicy := flagSet.String("exit-policy", string(config.PolicyWarn), "How failed solver runs are handled: 'ignore', 'warn' or 'fail'.")
	recordFormat := flagSet.String("record-format", "raw", "Result record format: 'raw' or 'jsonl'.")
	flagSet.Var(&solvers, "solver", "Solver as name=path. Repeat to run several; replaces the configured solvers.")
	reportURL := flagSet.String("report-url", "", "socket.io endpoint that receives progress events, e.g. http://host:3000/socket.io/.")
	reportNamespace := flagSet.String("report-namespace", "/", "socket.io namespace for progress events.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}

	// Flags may follow the command as well as precede it.
	var positional []string
	for flagSet.NArg() > 0 {
		positional = append(positional, flagSet.Arg(0))
		if err := flagSet.Parse(flagSet.Args()[1:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, true, nil
			}
			return nil, false, usageError("%s", err.Error())
		}
	}
	slog.Debug("Arguments parsed successfully.", "positional", positional)

	var cmd app.Command
	var initPath string
	if len(positional) > 0 {
		cmd = app.Command(positional[0])
		positional = positional[1:]
	}
	if cmd == app.CommandInit && len(positional) > 0 {
		initPath = positional[0]
		positional = positional[1:]
	}
	if len(positional) > 0 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(positional, " "))
	}

	// Only flags given explicitly override the configuration file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "instances":
			patch.InstanceCount = instances
		case "vertices":
			patch.VertexCount = vertices
		case "seed":
			patch.Seed = seed
		case "out":
			patch.OutputDirectory = out
		case "timeout":
			patch.Timeout = timeout
		case "exit-policy":
			patch.ExitPolicy = exitPolicy
		case "record-format":
			patch.RecordFormat = recordFormat
		case "solver":
			patch.Solvers = solvers
		}
	})
	if patch.Timeout != nil && *patch.Timeout < 0 {
		return nil, false, usageError("invalid timeout %s: must not be negative", *patch.Timeout)
	}

	path := *configFlag
	if path == "" {
		path = *cFlag
	}

	cfg, err := app.NewConfig(app.Config{
		Command:         cmd,
		ConfigPath:      path,
		InitPath:        initPath,
		Patch:           patch,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		HealthcheckPort: *healthPortFlag,
		ReportURL:       *reportURL,
		ReportNamespace: *reportNamespace,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "command", cfg.Command)
	return cfg, false, nil
}
