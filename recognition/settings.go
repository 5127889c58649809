package recognition

import (
	"errors"
	"time"

	"github.com/kbukum/transcriber/resilience"
)

// DefaultBackend is the backend used when none is configured.
const DefaultBackend = "google"

// Settings is the recognition section of the service config.
type Settings struct {
	// Backend selects a registered backend by name.
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Timeout is how long a job is awaited.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Job is the recognition config sent with every job.
	Job Config `yaml:"job" mapstructure:"job"`
	// CircuitBreaker guards submission when set.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	// Backends holds per-backend settings keyed by backend name.
	Backends map[string]map[string]any `yaml:"backends" mapstructure:"backends"`
}

// DefaultSettings returns the google backend with the default job config.
func DefaultSettings() Settings {
	return Settings{
		Backend: DefaultBackend,
		Timeout: DefaultTimeout,
		Job:     DefaultConfig(),
	}
}

// ApplyDefaults fills in zero-valued fields. AutoPunctuation is left as
// configured.
func (s *Settings) ApplyDefaults() {
	if s.Backend == "" {
		s.Backend = DefaultBackend
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.Job.Encoding == "" {
		s.Job.Encoding = DefaultEncoding
	}
	if s.Job.SampleRateHz == 0 {
		s.Job.SampleRateHz = DefaultSampleRateHz
	}
	if s.Job.LanguageCode == "" {
		s.Job.LanguageCode = DefaultLanguageCode
	}
	if s.CircuitBreaker != nil {
		s.CircuitBreaker.ApplyDefaults()
	}
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if s.Backend == "" {
		return errors.New("recognition: backend is required")
	}
	if err := s.Job.Validate(); err != nil {
		return errors.Join(errors.New("recognition: invalid job config"), err)
	}
	return nil
}

// BackendConfig returns the settings map for the selected backend.
func (s *Settings) BackendConfig() map[string]any {
	return s.Backends[s.Backend]
}
