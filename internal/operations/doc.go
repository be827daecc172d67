// Package operations runs the springs pipeline stages.
//
// Each stage is a Step registered in a Registry in pipeline order. The Runner
// executes a selection of steps strictly sequentially, stops at the first
// failure, records every stage in a RunManifest and, when telemetry is
// configured, wraps each stage in a span and dumps its metrics in Prometheus
// textfile format.
//
//	registry, err := operations.NewPipelineRegistry(operations.StageDeps{
//	    Config: cfg,
//	    Paths:  paths,
//	    Logger: logger,
//	})
//	runner := operations.NewRunner(registry, logger,
//	    operations.WithTelemetry(telemetry),
//	    operations.WithManifest(paths.ManifestFile),
//	    operations.WithMetricsFiles(paths.MetricsPath))
//	manifest, err := runner.Run(ctx)              // all stages
//	manifest, err = runner.Run(ctx, config.StageTrends) // one stage
package operations
