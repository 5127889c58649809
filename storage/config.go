package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Supported storage backends.
const (
	ProviderGCS   = "gcs"
	ProviderS3    = "s3"
	ProviderLocal = "local"
)

// Defaults.
const (
	DefaultProvider = ProviderGCS
	DefaultBucket   = "famanzur-speech-to-text-files"
	DefaultProject  = "hardy-album-440814-i1"
	DefaultRegion   = "us-east-1"
)

// Config holds storage configuration. Backend-specific fields are ignored by
// the other backends.
type Config struct {
	// Provider selects the backend: "gcs", "s3" or "local".
	Provider string `yaml:"provider" mapstructure:"provider"`
	// Bucket is the bucket every object is read from and written to.
	Bucket string `yaml:"bucket" mapstructure:"bucket"`

	// ProjectID is the Google Cloud project billed for requests (gcs).
	ProjectID string `yaml:"project_id" mapstructure:"project_id"`
	// CredentialsFile is a service-account JSON key (gcs). Empty uses ADC.
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`

	// Region is the AWS region (s3).
	Region string `yaml:"region" mapstructure:"region"`
	// Endpoint overrides the service endpoint (s3-compatible services, gcs emulator).
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// AccessKey is the AWS access key ID (s3).
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	// SecretKey is the AWS secret access key (s3).
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	// ForcePathStyle forces path-style addressing (s3).
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style"`

	// BasePath is the root directory holding bucket directories (local).
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.Provider == ProviderGCS && c.ProjectID == "" {
		c.ProjectID = DefaultProject
	}
	if c.Provider == ProviderS3 && c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Provider == ProviderLocal && c.BasePath == "" {
		c.BasePath = filepath.Join(os.TempDir(), "transcriber-storage")
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("storage: bucket is required")
	}
	switch c.Provider {
	case ProviderGCS:
	case ProviderS3:
		if c.Region == "" {
			return errors.New("storage: region is required for s3 provider")
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			return errors.New("storage: access_key and secret_key must be set together")
		}
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
