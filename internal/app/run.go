package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"

	"github.com/specialistvlad/flowbench/internal/corpus"
	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/executor"
	"github.com/specialistvlad/flowbench/internal/graphgen"
	"github.com/specialistvlad/flowbench/internal/hcl"
	"github.com/specialistvlad/flowbench/internal/report"
	"github.com/specialistvlad/flowbench/internal/solver"
)

// ErrConfigExists is returned by init when the target file already exists.
var ErrConfigExists = errors.New("configuration file already exists")

// Run executes the command selected in the App's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	if a.config.Command == CommandInit {
		return a.writeTemplate()
	}

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer()
		defer a.closeHealthCheckServer()
	}

	var publisher *report.Publisher
	if a.config.ReportURL != "" {
		pub, err := report.Connect(ctx, report.Options{URL: a.config.ReportURL, Namespace: a.config.ReportNamespace})
		if err != nil {
			return fmt.Errorf("failed to connect to report server: %w", err)
		}
		defer pub.Close()
		a.tracker.OnChange(pub.Progress)
		publisher = pub
	}

	var cases []corpus.Case
	var err error
	switch a.config.Command {
	case CommandSolve:
		cases, err = corpus.Discover(ctx, a.model.TestsPath(), a.model.InstanceCount, a.model.VertexCount)
	default:
		cases, err = a.generate(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to prepare test corpus: %w", err)
	}
	if a.config.Command == CommandGenerate {
		a.logger.Info("🏁 Corpus written.", "dir", a.model.TestsPath(), "count", len(cases))
		return nil
	}

	a.logger.Info("🚀 Starting solver runs...")
	ex := executor.New(a.model, solver.NewRunner(0), a.tracker)
	summary, err := ex.Execute(ctx, cases)
	if summary != nil {
		a.logSummary(summary)
		if publisher != nil {
			publisher.Summary(summary)
		}
	}
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")
	return nil
}

// generate writes a fresh corpus. Without a configured seed one is drawn and
// logged so the corpus can be reproduced later.
func (a *App) generate(ctx context.Context) ([]corpus.Case, error) {
	seed := rand.Uint64()
	if a.model.Seed != nil {
		seed = *a.model.Seed
	}
	a.logger.Info("Generating test corpus.", "seed", seed, "min_capacity", a.model.MinCapacity, "max_capacity", a.model.MaxCapacity)

	gen, err := graphgen.NewGenerator(
		graphgen.NewSource(&seed),
		graphgen.WithCapacityRange(a.model.MinCapacity, a.model.MaxCapacity),
	)
	if err != nil {
		return nil, err
	}

	a.tracker.SetPhase("generate", a.model.InstanceCount)
	builder := corpus.NewBuilder(a.model.TestsPath(), a.model.InstanceCount, a.model.VertexCount, gen)
	return builder.Build(ctx)
}

func (a *App) logSummary(summary *executor.Summary) {
	for _, s := range summary.Solvers {
		a.logger.Info("Solver summary.",
			"solver", s.Name,
			"records", s.Records,
			"cases", summary.Cases,
			"outcomes", s.Outcomes,
			"results", s.ResultPath,
		)
	}
}

// writeTemplate implements the init command. An existing file is never
// overwritten.
func (a *App) writeTemplate() (err error) {
	path := a.config.InitPath
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := hcl.WriteTemplate(f, a.model); err != nil {
		return fmt.Errorf("failed to write template %s: %w", path, err)
	}
	a.logger.Info("Configuration template written.", "path", path)
	return nil
}
