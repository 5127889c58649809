// Package whisper runs recognition jobs on a faster-whisper HTTP sidecar.
// The sidecar answers synchronously, so each job runs in the background
// and is awaited like a long-running operation.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/recognition"
)

const (
	// ProviderName is the registered backend name.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 10 * time.Minute
)

// Config holds configuration for the Whisper sidecar.
type Config struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
	// Timeout bounds a single sidecar call, independent of the await timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Backend implements recognition.Backend using a faster-whisper sidecar.
type Backend struct {
	cfg    Config
	client *http.Client
}

var _ recognition.Backend = (*Backend)(nil)

// New creates a Whisper backend.
func New(cfg Config) *Backend {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWhisperTimeout
	}
	return &Backend{cfg: cfg, client: &http.Client{}}
}

// Factory returns a provider.Factory that creates Whisper backends from a
// generic config map.
func Factory() provider.Factory[recognition.Backend] {
	return func(m map[string]any) (recognition.Backend, error) {
		var cfg Config
		if err := provider.DecodeConfig(m, &cfg); err != nil {
			return nil, err
		}
		return New(cfg), nil
	}
}

// Name returns the backend name.
func (b *Backend) Name() string { return ProviderName }

// IsAvailable checks if the sidecar is reachable.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Start launches a sidecar transcription of audio.LocalPath.
func (b *Backend) Start(ctx context.Context, cfg recognition.Config, audio recognition.Audio) (recognition.Operation, error) {
	if audio.LocalPath == "" {
		return nil, fmt.Errorf("%w: whisper needs a local copy of %q", recognition.ErrUnsupportedURI, audio.URI)
	}
	if _, err := os.Stat(audio.LocalPath); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	name := "whisper/" + uuid.NewString()
	return recognition.Go(ctx, name, b.cfg.Timeout, func(ctx context.Context) (*recognition.Result, error) {
		return b.transcribe(ctx, cfg, audio.LocalPath)
	}), nil
}

func (b *Backend) transcribe(ctx context.Context, cfg recognition.Config, path string) (*recognition.Result, error) {
	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}
	_ = writer.WriteField("model", b.cfg.Model)
	if lang := baseLanguage(cfg.LanguageCode); lang != "" {
		_ = writer.WriteField("language", lang)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.URL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	return result.toResult(), nil
}

// baseLanguage reduces a BCP-47 tag like es-ES to the ISO 639-1 code whisper expects.
func baseLanguage(code string) string {
	lang, _, _ := strings.Cut(code, "-")
	return strings.ToLower(lang)
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// toResult maps each sidecar segment to a single-alternative segment. A
// response with text but no segments becomes one segment.
func (r *whisperResponse) toResult() *recognition.Result {
	res := &recognition.Result{}
	if len(r.Segments) == 0 {
		if text := strings.TrimSpace(r.Text); text != "" {
			res.Segments = []recognition.Segment{{Alternatives: []recognition.Alternative{{Transcript: text}}}}
		}
		return res
	}
	res.Segments = make([]recognition.Segment, len(r.Segments))
	for i, seg := range r.Segments {
		res.Segments[i] = recognition.Segment{
			Alternatives: []recognition.Alternative{{Transcript: strings.TrimSpace(seg.Text)}},
		}
	}
	return res
}
