package transcoder

import (
	"errors"
	"runtime"
	"time"
)

// Defaults for the normalized output and the process runner.
const (
	DefaultBinary       = "ffmpeg"
	DefaultChannels     = 1
	DefaultSampleRateHz = 8000
	DefaultTimeout      = time.Minute
	DefaultGracePeriod  = 5 * time.Second
	DefaultMaxWait      = 30 * time.Second
)

// Config configures the ffmpeg invocation.
type Config struct {
	// Binary is the ffmpeg executable, resolved through PATH.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Channels is the output channel count.
	Channels int `yaml:"channels" mapstructure:"channels"`
	// SampleRateHz is the output sample rate. It must match the recognition config.
	SampleRateHz int `yaml:"sample_rate_hz" mapstructure:"sample_rate_hz"`
	// Timeout bounds one conversion.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// GracePeriod is the SIGTERM to SIGKILL delay on cancellation.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	// MaxConcurrent caps simultaneous ffmpeg processes.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWait is how long a conversion waits for a free slot.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.SampleRateHz == 0 {
		c.SampleRateHz = DefaultSampleRateHz
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = DefaultGracePeriod
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = runtime.NumCPU()
	}
	if c.MaxWait == 0 {
		c.MaxWait = DefaultMaxWait
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.Channels < 1 {
		errs = append(errs, errors.New("transcoder: channels must be at least 1"))
	}
	if c.SampleRateHz <= 0 {
		errs = append(errs, errors.New("transcoder: sample_rate_hz must be positive"))
	}
	if c.MaxConcurrent < 0 {
		errs = append(errs, errors.New("transcoder: max_concurrent must not be negative"))
	}
	return errors.Join(errs...)
}
