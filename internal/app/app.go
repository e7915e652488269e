package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/flowbench/internal/config"
	"github.com/specialistvlad/flowbench/internal/ctxlog"
	"github.com/specialistvlad/flowbench/internal/executor"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	model      *config.Model
	tracker    *executor.Tracker
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It configures an
// isolated logger and resolves the run model. For init the model is what the
// template will contain, so a given config file is carried over into it.
func NewApp(ctx context.Context, outW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		ctx:     ctx,
		logger:  logger,
		config:  appConfig,
		tracker: executor.NewTracker(),
	}

	model, err := loadModel(ctx, appConfig.ConfigPath, appConfig.Patch)
	if err != nil {
		return nil, err
	}
	a.model = model
	logger.Debug("Run model resolved.",
		"instances", model.InstanceCount,
		"vertices", model.VertexCount,
		"tests_dir", model.TestsPath(),
		"results_dir", model.ResultsPath(),
		"solvers", len(model.Solvers),
	)
	return a, nil
}

// Model returns the resolved run model.
func (a *App) Model() *config.Model {
	return a.model
}

// Progress returns the current run progress.
func (a *App) Progress() executor.Progress {
	return a.tracker.Snapshot()
}
