package transcoder

import (
	"context"

	"github.com/kbukum/transcriber/component"
	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/process"
)

// Component exposes the Transcoder and reports whether ffmpeg is installed.
// A missing binary does not stop startup; requests fail with a transcode
// error until it is installed.
type Component struct {
	t   *Transcoder
	log *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps t.
func NewComponent(t *Transcoder) *Component {
	return &Component{t: t, log: t.log}
}

// Transcoder returns the wrapped transcoder.
func (c *Component) Transcoder() *Transcoder { return c.t }

// Name returns the component name.
func (c *Component) Name() string { return "transcoder" }

// Start logs where ffmpeg resolves to.
func (c *Component) Start(_ context.Context) error {
	bin, err := process.LookPath(c.t.cfg.Binary)
	if err != nil {
		c.log.Warn("ffmpeg not found, conversions will fail", logger.ErrorFields("lookpath", err))
		return nil
	}
	c.log.Info("ffmpeg found", logger.Fields("binary", bin, "max_concurrent", c.t.cfg.MaxConcurrent))
	return nil
}

// Stop is a no-op; running conversions end with their request contexts.
func (c *Component) Stop(_ context.Context) error { return nil }

// Health is unhealthy while the binary cannot be resolved.
func (c *Component) Health(_ context.Context) component.Health {
	if _, err := process.LookPath(c.t.cfg.Binary); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
