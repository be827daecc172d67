package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"springcli/internal/config"
	apperrors "springcli/internal/errors"
	"springcli/internal/infrastructure"
	"springcli/internal/operations"
)

// PipelineLogName is the log file stem of a full run
const PipelineLogName = "pipeline"

// Options select what the application loads at start-up
type Options struct {
	// ConfigFile is an explicit YAML file; empty searches the usual locations
	ConfigFile string
	// RootDir overrides paths.root_dir when set
	RootDir string
	// LogName names logs/<LogName>.log when file logging has no explicit path
	LogName string
	// Progress receives the human-readable stage lines, stdout when nil
	Progress io.Writer
}

// Application wires configuration, logging, telemetry and the stage registry
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Registry  *operations.Registry
	Runner    *operations.Runner
}

// New loads configuration and builds every component of a run
func New(ctx context.Context, opts Options) (*Application, error) {
	cfg, err := config.LoadFrom(opts.ConfigFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	if opts.RootDir != "" {
		cfg.Paths.RootDir = opts.RootDir
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to ensure directories", err)
	}

	logName := opts.LogName
	if logName == "" {
		logName = PipelineLogName
	}
	if cfg.Logging.Output != "console" && cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath(logName + ".log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize logger", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, paths.TraceFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	progress := opts.Progress
	if progress == nil {
		progress = os.Stdout
	}

	registry, err := operations.NewPipelineRegistry(operations.StageDeps{
		Config:   cfg,
		Paths:    paths,
		Logger:   logger,
		Progress: progress,
	})
	if err != nil {
		_ = telemetry.Shutdown(ctx)
		return nil, err
	}

	runnerOpts := []operations.RunnerOption{
		operations.WithTelemetry(telemetry),
		operations.WithManifest(paths.ManifestFile),
	}
	if cfg.Telemetry.MetricsEnabled {
		runnerOpts = append(runnerOpts, operations.WithMetricsFiles(paths.MetricsPath))
	}

	return &Application{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Telemetry: telemetry,
		Registry:  registry,
		Runner:    operations.NewRunner(registry, logger, runnerOpts...),
	}, nil
}

// Run executes the given stages, or the whole pipeline when none are given
func (a *Application) Run(ctx context.Context, stages ...string) (*operations.RunManifest, error) {
	return a.Runner.Run(ctx, stages...)
}

// Close flushes telemetry and closes the log file
func (a *Application) Close(ctx context.Context) error {
	var firstErr error
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Execute is the body shared by the stage binaries: build the application,
// run the stages and release resources.
func Execute(ctx context.Context, opts Options, stages ...string) error {
	a, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	manifest, err := a.Run(ctx, stages...)
	if err != nil {
		return err
	}

	a.Logger.Info("Run finished",
		slog.String("run_id", manifest.RunID),
		slog.String("status", manifest.Status))
	return nil
}

// RunStage is the main of a single-stage binary. It parses the -config and
// -root flags from args and executes the stage, logging to logs/<stage>.log.
func RunStage(ctx context.Context, stage string, args []string, progress io.Writer) error {
	fs := flag.NewFlagSet(stage, flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML config file (defaults to springs.yaml or configs/springs.yaml)")
	rootDir := fs.String("root", "", "project root holding data/ and output/ (defaults to the working directory)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return apperrors.NewConfigError("invalid arguments for "+stage, err)
	}

	opts := Options{
		ConfigFile: *configFile,
		RootDir:    *rootDir,
		LogName:    stage,
		Progress:   progress,
	}
	if err := Execute(ctx, opts, stage); err != nil {
		return fmt.Errorf("%s stage failed: %w", stage, err)
	}
	return nil
}
