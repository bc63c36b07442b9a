package app

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/beliefgrid/internal/config"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loaders []config.Loader
	runID   string
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. Without explicit loaders the HCL and YAML loaders
// are used.
func NewApp(outW, logW io.Writer, cfg *Config, loaders ...config.Loader) *App {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	if len(loaders) == 0 {
		loaders = coreLoaders()
	}
	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loaders: loaders,
		runID:   runID,
	}
}

// RunID identifies this App's run in logs and JSON output.
func (a *App) RunID() string {
	return a.runID
}
