package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter creates an OTLP/HTTP meter provider and installs it globally.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, svc Service, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded by the transcription workflow.
// A nil *Metrics records nothing.
type Metrics struct {
	requests     metric.Int64Counter
	requestTime  metric.Float64Histogram
	active       metric.Int64UpDownCounter
	steps        metric.Int64Counter
	stepDuration metric.Float64Histogram
	errors       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	if m.requests, err = meter.Int64Counter("transcription.requests",
		metric.WithDescription("Transcription requests by outcome"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}
	if m.requestTime, err = meter.Float64Histogram("transcription.duration",
		metric.WithDescription("End-to-end transcription duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}
	if m.active, err = meter.Int64UpDownCounter("transcription.active",
		metric.WithDescription("Transcriptions currently in progress"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.active counter: %w", err)
	}
	if m.steps, err = meter.Int64Counter("transcription.step.total",
		metric.WithDescription("Workflow steps executed by step and status"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.step.total counter: %w", err)
	}
	if m.stepDuration, err = meter.Float64Histogram("transcription.step.duration",
		metric.WithDescription("Duration of each workflow step"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.step.duration histogram: %w", err)
	}
	if m.errors, err = meter.Int64Counter("transcription.errors",
		metric.WithDescription("Workflow failures by kind and step"),
	); err != nil {
		return nil, fmt.Errorf("creating transcription.errors counter: %w", err)
	}
	return &m, nil
}

// RecordStart marks a transcription as in progress.
func (m *Metrics) RecordStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

// RecordEnd records a finished transcription with its outcome ("ok" or an error kind).
func (m *Metrics) RecordEnd(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.active.Add(ctx, -1)
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.requestTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordStep records one workflow step.
func (m *Metrics) RecordStep(ctx context.Context, step, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.steps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	))
	m.stepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("step", step)))
}

// RecordError records a workflow failure.
func (m *Metrics) RecordError(ctx context.Context, kind, step string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("step", step),
	))
}
