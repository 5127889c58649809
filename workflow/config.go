package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/transcriber/recognition"
)

// Config configures the orchestrator.
type Config struct {
	// ScratchRoot holds one private directory per run.
	ScratchRoot string `yaml:"scratch_root" mapstructure:"scratch_root"`
	// AwaitTimeout bounds the wait for a recognition job.
	AwaitTimeout time.Duration `yaml:"await_timeout" mapstructure:"await_timeout"`
	// FailOnPersistError fails the run when the transcript upload fails.
	// When false the transcript is still returned with Persisted=false.
	FailOnPersistError bool `yaml:"fail_on_persist_error" mapstructure:"fail_on_persist_error"`
	// KeepScratch leaves run directories in place for debugging.
	KeepScratch bool `yaml:"keep_scratch" mapstructure:"keep_scratch"`
	// Recognition is the job config sent with every submission.
	Recognition recognition.Config `yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns the defaults: scratch under the OS temp dir, a
// 180s await and fatal upload failures.
func DefaultConfig() Config {
	return Config{
		ScratchRoot:        filepath.Join(os.TempDir(), "transcriber"),
		AwaitTimeout:       recognition.DefaultTimeout,
		FailOnPersistError: true,
		Recognition:        recognition.DefaultConfig(),
	}
}

// ApplyDefaults fills in zero-valued fields except FailOnPersistError.
func (c *Config) ApplyDefaults() {
	if c.ScratchRoot == "" {
		c.ScratchRoot = filepath.Join(os.TempDir(), "transcriber")
	}
	if c.AwaitTimeout <= 0 {
		c.AwaitTimeout = recognition.DefaultTimeout
	}
	if c.Recognition == (recognition.Config{}) {
		c.Recognition = recognition.DefaultConfig()
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ScratchRoot == "" {
		return errors.New("workflow: scratch_root is required")
	}
	return c.Recognition.Validate()
}
