package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"springcli/internal/infrastructure"
)

// Runner executes steps strictly in order and stops at the first failure
type Runner struct {
	registry     *Registry
	telemetry    *infrastructure.Telemetry
	logger       *slog.Logger
	manifestPath string
	metricsPath  func(stage string) string
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithTelemetry records a span and metrics for every stage
func WithTelemetry(t *infrastructure.Telemetry) RunnerOption {
	return func(r *Runner) {
		r.telemetry = t
	}
}

// WithManifest writes the run manifest to path after the run
func WithManifest(path string) RunnerOption {
	return func(r *Runner) {
		r.manifestPath = path
	}
}

// WithMetricsFiles dumps the metrics registry after each stage to the path
// returned for that stage
func WithMetricsFiles(pathFor func(stage string) string) RunnerOption {
	return func(r *Runner) {
		r.metricsPath = pathFor
	}
}

// NewRunner creates a runner over a registry
func NewRunner(registry *Registry, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		registry: registry,
		logger:   infrastructure.WithComponent(logger, "runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the selected steps, all registered steps when ids is empty.
// After a failure the remaining steps are recorded as skipped. The manifest
// is returned and saved in every case where the selection is valid.
func (r *Runner) Run(ctx context.Context, ids ...string) (*RunManifest, error) {
	steps, err := r.registry.Select(ids...)
	if err != nil {
		return nil, err
	}

	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)
	manifest := NewRunManifest(runID)

	r.logger.InfoContext(ctx, "sequential_execution_start",
		slog.String("run_id", runID),
		slog.Int("stage_count", len(steps)))

	var runErr error
	failed := ""
	for i, step := range steps {
		state := NewStepState(step.ID(), step.Name())

		if runErr != nil {
			state.Skip(fmt.Sprintf("previous stage %s failed", failed))
			manifest.RecordStage(state, nil)
			continue
		}

		r.logger.InfoContext(ctx, "executing_stage",
			slog.String("stage", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		result, err := r.executeStep(ctx, step, state)
		if err != nil {
			runErr = NewExecutionError(step.ID(), err)
			failed = step.ID()
			manifest.RecordStage(state, nil)
			manifest.Fail(step.ID(), err)
			infrastructure.WithError(r.logger, err).ErrorContext(ctx, "stage_failed",
				slog.String("stage", step.ID()))
			continue
		}

		manifest.RecordStage(state, &result)
		r.logger.InfoContext(ctx, "stage_completed_successfully",
			slog.String("stage", step.ID()),
			slog.Duration("duration", state.Duration()))
	}

	if runErr == nil {
		manifest.Complete()
		r.logger.InfoContext(ctx, "all_stages_completed", slog.String("run_id", runID))
	}

	if r.manifestPath != "" {
		if err := manifest.SaveToFile(r.manifestPath); err != nil {
			r.logger.ErrorContext(ctx, "Failed to save run manifest",
				slog.String("path", r.manifestPath),
				slog.String("error", err.Error()))
			if runErr == nil {
				runErr = err
			}
		}
	}

	return manifest, runErr
}

// executeStep runs one step inside its span and records telemetry
func (r *Runner) executeStep(ctx context.Context, step Step, state *StepState) (StepResult, error) {
	ctx = infrastructure.WithStage(ctx, step.ID())

	if r.telemetry == nil {
		state.Start()
		result, err := step.Execute(ctx)
		if err != nil {
			state.Fail(err)
			return result, err
		}
		state.Complete()
		return result, nil
	}

	ctx, span := r.telemetry.StartStage(ctx, step.ID())
	defer span.End()

	start := time.Now()
	state.Start()
	result, err := step.Execute(ctx)
	if err != nil {
		state.Fail(err)
	} else {
		state.Complete()
	}

	r.telemetry.RecordStage(ctx, span, infrastructure.StageRecord{
		Stage:       step.ID(),
		RowsRead:    result.RowsRead,
		RowsWritten: result.RowsWritten,
		RowsDropped: result.RowsDropped,
		Duration:    time.Since(start),
		Err:         err,
	})

	if r.metricsPath != nil {
		path := r.metricsPath(step.ID())
		if werr := r.telemetry.WriteMetrics(path); werr != nil {
			r.logger.WarnContext(ctx, "Failed to write metrics file",
				slog.String("path", path),
				slog.String("error", werr.Error()))
		}
	}

	return result, err
}
