package bootstrap

import (
	"context"
	"sort"
	"time"

	"github.com/kbukum/transcriber/component"
	"github.com/kbukum/transcriber/logger"
)

// Summary describes a completed startup.
type Summary struct {
	Service         string
	Version         string
	StartupDuration time.Duration
	Components      []component.Health
}

// Healthy reports whether every component is healthy.
func (s Summary) Healthy() bool {
	for _, c := range s.Components {
		if c.Status != component.StatusHealthy {
			return false
		}
	}
	return true
}

func collectSummary(ctx context.Context, name, version string, reg *component.Registry, took time.Duration) Summary {
	health := reg.HealthAll(ctx)
	sort.SliceStable(health, func(i, j int) bool { return health[i].Name < health[j].Name })
	return Summary{Service: name, Version: version, StartupDuration: took, Components: health}
}

// log writes one line per component followed by the overall result.
func (s Summary) log(log *logger.Logger) {
	for _, c := range s.Components {
		fields := logger.Fields("component", c.Name, "status", string(c.Status))
		if c.Message != "" {
			fields["message"] = c.Message
		}
		if c.Status == component.StatusHealthy {
			log.Info("Component ready", fields)
		} else {
			log.Warn("Component not healthy", fields)
		}
	}
	log.Info("Startup complete", logger.Fields(
		"service", s.Service,
		"version", s.Version,
		"components", len(s.Components),
		"healthy", s.Healthy(),
		logger.FieldDuration, s.StartupDuration.Milliseconds(),
	))
}
