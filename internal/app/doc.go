// Package app wires a pipeline run together: it loads configuration,
// resolves the directory layout, initializes logging and telemetry and
// registers the six stages with a sequential runner.
//
// The stage binaries and the springs CLI share it:
//
//	if err := app.Execute(ctx, app.Options{LogName: "merge"}, config.StageMerge); err != nil {
//	    slog.Error("merge failed", "error", err)
//	    os.Exit(1)
//	}
package app
