package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/transcriber/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Service states reported by /health.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// ComponentReport is one component's entry in a Report.
type ComponentReport struct {
	Status   component.HealthStatus `json:"status"`
	Message  string                 `json:"message,omitempty"`
	Required bool                   `json:"required"`
}

// Report is the body of /health and /readiness.
type Report struct {
	Status     string                     `json:"status"`
	Service    string                     `json:"service"`
	Timestamp  string                     `json:"timestamp"`
	Components map[string]ComponentReport `json:"components,omitempty"`
	// Blocking lists the required components that keep requests from being
	// served, as "name: message".
	Blocking []string `json:"blocking,omitempty"`
}

// Checkup turns component health into a service verdict. A request needs every
// Required component; the others only degrade the service when they fail.
// An empty Required list treats every component as required.
type Checkup struct {
	Service  string
	Check    HealthChecker
	Required []string
}

func (p Checkup) required(name string) bool {
	if len(p.Required) == 0 {
		return true
	}
	for _, r := range p.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Report evaluates every component.
func (p Checkup) Report(ctx context.Context) Report {
	r := Report{
		Status:    StatusHealthy,
		Service:   p.Service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if p.Check == nil {
		return r
	}
	checks := p.Check(ctx)
	r.Components = make(map[string]ComponentReport, len(checks))
	for _, h := range checks {
		req := p.required(h.Name)
		r.Components[h.Name] = ComponentReport{Status: h.Status, Message: h.Message, Required: req}
		switch {
		case h.Status == component.StatusUnhealthy && req:
			blocker := h.Name
			if h.Message != "" {
				blocker += ": " + h.Message
			}
			r.Blocking = append(r.Blocking, blocker)
			r.Status = StatusUnhealthy
		case h.Status != component.StatusHealthy && r.Status == StatusHealthy:
			r.Status = StatusDegraded
		}
	}
	return r
}

// Health reports every component. It answers 503 only when a required
// component is down.
func Health(p Checkup) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := p.Report(c.Request.Context())
		code := http.StatusOK
		if r.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, r)
	}
}
