package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/transcriber/component"
	"github.com/kbukum/transcriber/logger"
)

// Component manages the tracer and meter providers.
type Component struct {
	svc Service
	cfg Config
	log *logger.Logger

	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

var _ component.Component = (*Component)(nil)

// NewComponent creates an observability component.
func NewComponent(svc Service, cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{svc: svc, cfg: cfg, log: log.WithComponent("observability")}
}

// Name implements component.Component.
func (c *Component) Name() string { return "observability" }

// Start initializes exporters when enabled and builds the workflow metrics.
func (c *Component) Start(ctx context.Context) error {
	if c.cfg.Enabled {
		tp, err := InitTracer(ctx, c.svc, c.cfg)
		if err != nil {
			return err
		}
		c.tp = tp

		mp, err := InitMeter(ctx, c.svc, c.cfg)
		if err != nil {
			return errors.Join(err, tp.Shutdown(ctx))
		}
		c.mp = mp
		c.log.Info("telemetry export enabled", logger.Fields(
			"endpoint", c.cfg.Endpoint,
			"sample_rate", c.cfg.SampleRate,
		))
	}

	m, err := NewMetrics(Meter())
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	c.metrics = m
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health implements component.Component.
func (c *Component) Health(_ context.Context) component.Health {
	msg := "export disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: msg}
}

// Metrics returns the workflow instruments. Nil before Start.
func (c *Component) Metrics() *Metrics {
	return c.metrics
}
