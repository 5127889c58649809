package recognition

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/transcriber/component"
	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/provider"
)

// Component creates the configured backend on Start and exposes a Client.
type Component struct {
	settings Settings
	registry *provider.Registry[Backend]
	log      *logger.Logger

	backend Backend
	client  *Client
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a recognition component that picks its backend from registry.
func NewComponent(settings Settings, registry *provider.Registry[Backend], log *logger.Logger) *Component {
	return &Component{settings: settings, registry: registry, log: log}
}

// Client returns the client, or nil before Start.
func (c *Component) Client() *Client { return c.client }

// Name returns the component name.
func (c *Component) Name() string { return "recognition" }

// Start creates the backend and the client.
func (c *Component) Start(_ context.Context) error {
	c.settings.ApplyDefaults()
	if err := c.settings.Validate(); err != nil {
		return err
	}
	backend, err := c.registry.Create(c.settings.Backend, c.settings.BackendConfig())
	if err != nil {
		return fmt.Errorf("recognition start: %w", err)
	}
	c.backend = backend
	c.client = NewClient(backend, ClientConfig{
		Timeout:        c.settings.Timeout,
		CircuitBreaker: c.settings.CircuitBreaker,
	}, c.log)
	c.log.Info("recognition backend ready", logger.Fields(logger.FieldBackend, backend.Name(), "timeout", c.settings.Timeout.String()))
	return nil
}

// Stop closes the backend if it holds resources.
func (c *Component) Stop(_ context.Context) error {
	if closer, ok := c.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Health reports whether the backend is available.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.backend == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "backend not created"}
	}
	if !c.backend.IsAvailable(ctx) {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: c.backend.Name() + " unavailable"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: c.backend.Name()}
}
