package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/transcriber/config"
	"github.com/kbukum/transcriber/storage"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("HTTP.Port = %d", cfg.HTTP.Port)
	}
	if cfg.Storage.Bucket != storage.DefaultBucket || cfg.Storage.ProjectID != storage.DefaultProject {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Workflow.AwaitTimeout != 180*time.Second {
		t.Errorf("AwaitTimeout = %v", cfg.Workflow.AwaitTimeout)
	}
	if !cfg.Workflow.FailOnPersistError {
		t.Error("FailOnPersistError should default to true")
	}
	job := cfg.Workflow.Recognition
	if job.Encoding != "LINEAR16" || job.SampleRateHz != 8000 || job.LanguageCode != "es-ES" || !job.AutoPunctuation {
		t.Errorf("job config = %+v", job)
	}
	if got := cfg.Recognition.Backends["google"]["project_id"]; got != storage.DefaultProject {
		t.Errorf("google project_id = %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
name: transcriber
environment: production
http:
  port: 9000
storage:
  provider: local
  bucket: test-bucket
  base_path: /tmp/objects
recognition:
  backend: whisper
  timeout: 30s
  job:
    language_code: es-MX
  backends:
    whisper:
      url: http://localhost:9000
workflow:
  fail_on_persist_error: false
`)

	cfg, err := Load(config.WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment != "production" || cfg.HTTP.Port != 9000 {
		t.Errorf("cfg = %+v", cfg.ServiceConfig)
	}
	if cfg.Storage.Provider != storage.ProviderLocal || cfg.Storage.Bucket != "test-bucket" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Workflow.AwaitTimeout != 30*time.Second {
		t.Errorf("AwaitTimeout should follow recognition.timeout, got %v", cfg.Workflow.AwaitTimeout)
	}
	if cfg.Workflow.FailOnPersistError {
		t.Error("explicit false should be kept")
	}
	if cfg.Workflow.Recognition.LanguageCode != "es-MX" || !cfg.Workflow.Recognition.AutoPunctuation {
		t.Errorf("job = %+v", cfg.Workflow.Recognition)
	}
	if cfg.Recognition.BackendConfig()["url"] != "http://localhost:9000" {
		t.Errorf("whisper config = %v", cfg.Recognition.BackendConfig())
	}
}

func TestLoadPortFromEnv(t *testing.T) {
	path := writeConfig(t, "name: transcriber\n")
	t.Setenv("PORT", "9191")

	cfg, err := Load(config.WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9191 {
		t.Errorf("HTTP.Port = %d, want 9191", cfg.HTTP.Port)
	}
}

func TestValidateReportsSections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyDefaults()
	cfg.Storage.Provider = "ftp"
	cfg.HTTP.Port = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"http:", "storage:"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateWriteDeadline(t *testing.T) {
	tests := []struct {
		name      string
		write     int
		transcode time.Duration
		await     time.Duration
		wantErr   bool
	}{
		{"defaults fit", 300, time.Minute, 180 * time.Second, false},
		{"slow transcoder outlasts response", 300, 10 * time.Minute, 180 * time.Second, true},
		{"long await outlasts response", 120, time.Minute, 180 * time.Second, true},
		{"exact budget", 270, time.Minute, 180 * time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.HTTP.WriteTimeout = tt.write
			cfg.Transcoder.Timeout = tt.transcode
			cfg.Workflow.AwaitTimeout = tt.await
			cfg.ApplyDefaults()

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "write_timeout") {
				t.Errorf("error %q does not name write_timeout", err)
			}
		})
	}
}
