package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"springcli/internal/config"
)

const (
	ServiceVersion = config.AppVersion
	MeterName      = "springcli"
)

// Telemetry bundles the tracer and the stage metrics of one process
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *StageMetrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *prometheus.Registry
	traceFile      *os.File
	logger         *slog.Logger
}

// StageMetrics holds the instruments recorded after every stage
type StageMetrics struct {
	RowsRead      metric.Int64Counter
	RowsWritten   metric.Int64Counter
	RowsDropped   metric.Int64Counter
	StageDuration metric.Float64Histogram

	// LastSuccess is a plain Prometheus gauge, the textfile collector convention
	// for batch jobs.
	LastSuccess *prometheus.GaugeVec
}

// StageRecord is what a finished stage reports to telemetry
type StageRecord struct {
	Stage       string
	RowsRead    int
	RowsWritten int
	RowsDropped int
	Duration    time.Duration
	Err         error
}

// InitializeTelemetry sets up tracing and metrics per configuration.
// With tracing disabled the tracer is a no-op; with metrics disabled the
// instruments are no-ops and WriteMetrics does nothing.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, traceFile string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	t := &Telemetry{logger: logger}

	if err := t.initializeTracing(cfg, res, traceFile); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := t.initializeMetrics(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled))

	return t, nil
}

// initializeTracing sets up OpenTelemetry tracing
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, traceFile string) error {
	switch cfg.TraceExporter {
	case "stdout":
		if err := os.MkdirAll(filepath.Dir(traceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		file, err := os.OpenFile(traceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open trace file: %w", err)
		}

		exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
		if err != nil {
			file.Close()
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}

		t.traceFile = file
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
	case "none", "":
		t.Tracer = tracenoop.NewTracerProvider().Tracer(MeterName)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

// initializeMetrics sets up the OTel meter on a private Prometheus registry
func (t *Telemetry) initializeMetrics(cfg config.TelemetryConfig, res *resource.Resource) error {
	var meter metric.Meter

	if cfg.MetricsEnabled {
		t.registry = prometheus.NewRegistry()

		exporter, err := otelprom.New(otelprom.WithRegisterer(t.registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		meter = t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))
	} else {
		meter = metricnoop.NewMeterProvider().Meter(MeterName)
	}

	metrics, err := CreateStageMetrics(meter)
	if err != nil {
		return err
	}

	metrics.LastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "springs_stage_last_success_timestamp_seconds",
		Help: "Unix time of the last successful completion of a stage.",
	}, []string{"stage"})
	if t.registry != nil {
		t.registry.MustRegister(metrics.LastSuccess)
	}

	t.Metrics = metrics
	return nil
}

// CreateStageMetrics creates the per-stage instruments
func CreateStageMetrics(meter metric.Meter) (*StageMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"springs_rows_read",
		metric.WithDescription("Rows read by a stage"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"springs_rows_written",
		metric.WithDescription("Rows written by a stage"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"springs_rows_dropped",
		metric.WithDescription("Rows dropped by a stage"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"springs_stage_duration",
		metric.WithDescription("Stage execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &StageMetrics{
		RowsRead:      rowsRead,
		RowsWritten:   rowsWritten,
		RowsDropped:   rowsDropped,
		StageDuration: duration,
	}, nil
}

// StartStage opens the span covering one stage
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("stage", stage)}
	if runID := GetRunID(ctx); runID != "" {
		attrs = append(attrs, attribute.String("run_id", runID))
	}
	return t.Tracer.Start(ctx, "stage "+stage, trace.WithAttributes(attrs...))
}

// RecordStage records the outcome of a stage on its span and in the metrics
func (t *Telemetry) RecordStage(ctx context.Context, span trace.Span, rec StageRecord) {
	status := "success"
	if rec.Err != nil {
		status = "failed"
		span.RecordError(rec.Err)
		span.SetStatus(codes.Error, rec.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.SetAttributes(
		attribute.Int("rows.read", rec.RowsRead),
		attribute.Int("rows.written", rec.RowsWritten),
		attribute.Int("rows.dropped", rec.RowsDropped),
	)

	attrs := metric.WithAttributes(
		attribute.String("stage", rec.Stage),
		attribute.String("status", status),
	)
	t.Metrics.RowsRead.Add(ctx, int64(rec.RowsRead), attrs)
	t.Metrics.RowsWritten.Add(ctx, int64(rec.RowsWritten), attrs)
	t.Metrics.RowsDropped.Add(ctx, int64(rec.RowsDropped), attrs)
	t.Metrics.StageDuration.Record(ctx, rec.Duration.Seconds(), attrs)

	if rec.Err == nil {
		t.Metrics.LastSuccess.WithLabelValues(rec.Stage).SetToCurrentTime()
	}
}

// WriteMetrics dumps the registry in text exposition format to path
func (t *Telemetry) WriteMetrics(path string) error {
	if t.registry == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, t.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Shutdown flushes pending spans and releases the trace file
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var firstErr error

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			firstErr = fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	if t.traceFile != nil {
		if err := t.traceFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		t.traceFile = nil
	}

	return firstErr
}
