package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/transcriber/config"
	"github.com/kbukum/transcriber/observability"
	"github.com/kbukum/transcriber/recognition"
	"github.com/kbukum/transcriber/server"
	"github.com/kbukum/transcriber/storage"
	"github.com/kbukum/transcriber/transcoder"
	"github.com/kbukum/transcriber/workflow"
)

// ServiceName names the service in logs, telemetry and config file lookup.
const ServiceName = "transcriber"

// ResponseMargin is the share of the HTTP write deadline left for transfers
// once conversion and recognition have used their full timeouts.
const ResponseMargin = 30 * time.Second

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP          server.Config        `yaml:"http" mapstructure:"http"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Recognition   recognition.Settings `yaml:"recognition" mapstructure:"recognition"`
	Transcoder    transcoder.Config    `yaml:"transcoder" mapstructure:"transcoder"`
	Workflow      workflow.Config      `yaml:"workflow" mapstructure:"workflow"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// DefaultConfig returns the base Load decodes onto. It carries the boolean
// defaults that ApplyDefaults cannot tell apart from an explicit false;
// everything else is filled by ApplyDefaults.
func DefaultConfig() Config {
	return Config{
		ServiceConfig: config.ServiceConfig{Name: ServiceName},
		Recognition:   recognition.DefaultSettings(),
		Workflow:      workflow.Config{FailOnPersistError: true},
	}
}

// ApplyDefaults fills in zero-valued fields in every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Recognition.ApplyDefaults()
	c.Transcoder.ApplyDefaults()
	if c.Workflow.AwaitTimeout <= 0 {
		c.Workflow.AwaitTimeout = c.Recognition.Timeout
	}
	c.Workflow.ApplyDefaults()
	c.Workflow.Recognition = c.Recognition.Job
	c.Observability.ApplyDefaults()
	c.shareGoogleCredentials()
}

// shareGoogleCredentials lets the google backend reuse the storage project
// and credentials unless it has its own.
func (c *Config) shareGoogleCredentials() {
	if c.Recognition.Backend != "google" || c.Storage.Provider != storage.ProviderGCS {
		return
	}
	if c.Recognition.Backends == nil {
		c.Recognition.Backends = make(map[string]map[string]any)
	}
	g := c.Recognition.Backends["google"]
	if g == nil {
		g = make(map[string]any)
		c.Recognition.Backends["google"] = g
	}
	if _, ok := g["project_id"]; !ok && c.Storage.ProjectID != "" {
		g["project_id"] = c.Storage.ProjectID
	}
	if _, ok := g["credentials_file"]; !ok && c.Storage.CredentialsFile != "" {
		g["credentials_file"] = c.Storage.CredentialsFile
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		fn      func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"http", c.HTTP.Validate},
		{"storage", c.Storage.Validate},
		{"recognition", c.Recognition.Validate},
		{"transcoder", c.Transcoder.Validate},
		{"workflow", c.Workflow.Validate},
		{"observability", c.Observability.Validate},
	}
	var errs []error
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.section, err))
		}
	}
	if err := c.validateWriteDeadline(); err != nil {
		errs = append(errs, fmt.Errorf("http: %w", err))
	}
	return errors.Join(errs...)
}

// validateWriteDeadline rejects a write timeout that would cut the response
// while the workflow is still inside its own deadlines.
func (c *Config) validateWriteDeadline() error {
	if c.HTTP.WriteTimeout <= 0 {
		return nil
	}
	write := time.Duration(c.HTTP.WriteTimeout) * time.Second
	need := c.Transcoder.Timeout + c.Workflow.AwaitTimeout + ResponseMargin
	if write < need {
		return fmt.Errorf("write_timeout %s is shorter than transcoder.timeout %s + await timeout %s + %s",
			write, c.Transcoder.Timeout, c.Workflow.AwaitTimeout, ResponseMargin)
	}
	return nil
}

// Load reads the config: defaults, then cmd/transcriber/config.yml (or the
// WithConfigFile path), then .env, then the environment. PORT sets the HTTP
// port.
func Load(opts ...config.LoaderOption) (*Config, error) {
	cfg := DefaultConfig()
	opts = append([]config.LoaderOption{config.WithEnvAlias("http.port", "PORT")}, opts...)
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}
