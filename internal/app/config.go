package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/flowbench/internal/config"
)

// Command selects which part of the pipeline a run executes.
type Command string

const (
	// CommandRun generates a fresh corpus and runs every solver on it.
	CommandRun Command = "run"
	// CommandGenerate only writes the corpus.
	CommandGenerate Command = "generate"
	// CommandSolve runs the solvers on a corpus written earlier.
	CommandSolve Command = "solve"
	// CommandInit writes a configuration template and exits.
	CommandInit Command = "init"
)

// DefaultInitPath is where `init` writes its template when no path is given.
const DefaultInitPath = "flowbench.hcl"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command    Command
	ConfigPath string // .hcl/.yaml file or a directory holding one .hcl file
	InitPath   string
	// Patch carries the settings given on the command line. It is applied
	// after the configuration file.
	Patch config.Patch

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// ReportURL, when set, is a socket.io endpoint receiving progress events.
	ReportURL       string
	ReportNamespace string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case "":
		cfg.Command = CommandRun
	case CommandRun, CommandGenerate, CommandSolve, CommandInit:
	default:
		return nil, fmt.Errorf("unknown command %q: must be 'run', 'generate', 'solve' or 'init'", cfg.Command)
	}
	if cfg.Command == CommandInit && cfg.InitPath == "" {
		cfg.InitPath = DefaultInitPath
	}
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck-port %d", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
