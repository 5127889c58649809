package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed piece of infrastructure: an object store
// client, a recognition backend client, the HTTP server, telemetry exporters.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string
	// Start initializes the component.
	Start(ctx context.Context) error
	// Stop releases the component's resources.
	Stop(ctx context.Context) error
	// Health reports the component's current state.
	Health(ctx context.Context) Health
}
