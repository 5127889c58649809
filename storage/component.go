package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/transcriber/component"
	"github.com/kbukum/transcriber/logger"
)

// healthCheckKey is checked for existence to confirm the bucket is reachable.
const healthCheckKey = ".health"

// Component owns the Storage client lifecycle.
type Component struct {
	cfg     Config
	log     *logger.Logger
	storage Storage
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a storage component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Storage returns the underlying Storage, or nil if not started.
func (c *Component) Storage() Storage {
	return c.storage
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start creates the storage client.
func (c *Component) Start(ctx context.Context) error {
	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop closes the storage client.
func (c *Component) Stop(_ context.Context) error {
	if c.storage == nil {
		return nil
	}
	err := c.storage.Close()
	c.storage = nil
	return err
}

// Health checks the bucket with an existence check.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.storage == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if _, err := c.storage.Exists(ctx, healthCheckKey); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: c.storage.URI("")}
}
