package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"hmiscli/internal/config"
)

const (
	ServiceVersion  = "1.0.0"
	Instrumentation = "hmiscli"
)

// Telemetry holds the OpenTelemetry providers and the instruments the
// cleaning and modeling code records into
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Metrics        *PipelineMetrics
	// PrometheusHTTP serves the metrics registry, nil when metrics are off
	PrometheusHTTP http.Handler

	traceOut io.Closer
	logger   *slog.Logger
}

// PipelineMetrics are the application-specific instruments
type PipelineMetrics struct {
	RowsIn         metric.Int64Counter
	RowsOut        metric.Int64Counter
	StepDuration   metric.Float64Histogram
	ModelsLaunched metric.Int64Counter
	ModelsFailed   metric.Int64Counter
	ModelDuration  metric.Float64Histogram
}

// InitializeTelemetry sets up tracing and metrics. With tracing set to
// "none" and metrics disabled it returns no-op instruments, so callers never
// need to check for nil.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	tel := &Telemetry{logger: logger}

	if err := tel.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	meter, err := tel.initializeMetrics(cfg, res)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if tel.Metrics, err = NewPipelineMetrics(meter); err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	logger.InfoContext(ctx, "OpenTelemetry initialization complete",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.Metrics))
	return tel, nil
}

// NoopTelemetry returns telemetry that records nothing
func NoopTelemetry() *Telemetry {
	metrics, _ := NewPipelineMetrics(noop.NewMeterProvider().Meter(Instrumentation))
	return &Telemetry{
		Tracer:  otel.GetTracerProvider().Tracer(Instrumentation),
		Metrics: metrics,
		logger:  GetLogger(),
	}
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	switch cfg.TraceExporter {
	case "", "none":
		t.Tracer = otel.GetTracerProvider().Tracer(Instrumentation)
		return nil
	case "stdout":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	var out io.Writer = os.Stdout
	if cfg.TraceFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.OpenFile(cfg.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open trace file: %w", err)
		}
		t.traceOut = f
		out = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	t.TracerProvider = tp
	t.Tracer = tp.Tracer(Instrumentation, trace.WithInstrumentationVersion(ServiceVersion))
	otel.SetTracerProvider(tp)
	return nil
}

func (t *Telemetry) initializeMetrics(cfg config.TelemetryConfig, res *resource.Resource) (metric.Meter, error) {
	if !cfg.Metrics {
		return noop.NewMeterProvider().Meter(Instrumentation), nil
	}

	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.MeterProvider = mp
	otel.SetMeterProvider(mp)
	return mp.Meter(Instrumentation, metric.WithInstrumentationVersion(ServiceVersion)), nil
}

// NewPipelineMetrics creates the instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var m PipelineMetrics
	var err error
	if m.RowsIn, err = meter.Int64Counter("table_rows_in_total",
		metric.WithDescription("Rows read by a cleaning step")); err != nil {
		return nil, err
	}
	if m.RowsOut, err = meter.Int64Counter("table_rows_out_total",
		metric.WithDescription("Rows written by a cleaning step")); err != nil {
		return nil, err
	}
	if m.StepDuration, err = meter.Float64Histogram("clean_step_duration_seconds",
		metric.WithDescription("Cleaning step duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.ModelsLaunched, err = meter.Int64Counter("models_launched_total",
		metric.WithDescription("External classifier processes started")); err != nil {
		return nil, err
	}
	if m.ModelsFailed, err = meter.Int64Counter("models_failed_total",
		metric.WithDescription("External classifier processes that exited non-zero")); err != nil {
		return nil, err
	}
	if m.ModelDuration, err = meter.Float64Histogram("model_duration_seconds",
		metric.WithDescription("External classifier run time in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordStep records rows in/out and duration for a cleaning step
func (t *Telemetry) RecordStep(ctx context.Context, table string, rowsIn, rowsOut int, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("table", table))
	t.Metrics.RowsIn.Add(ctx, int64(rowsIn), attrs)
	t.Metrics.RowsOut.Add(ctx, int64(rowsOut), attrs)
	t.Metrics.StepDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordModel records one finished classifier run
func (t *Telemetry) RecordModel(ctx context.Context, model string, ok bool, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("model", model))
	if !ok {
		t.Metrics.ModelsFailed.Add(ctx, 1, attrs)
	}
	t.Metrics.ModelDuration.Record(ctx, d.Seconds(), attrs)
}

// StartSpan starts a span on the telemetry tracer
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
