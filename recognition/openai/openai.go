// Package openai runs recognition jobs on the OpenAI audio transcription API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/recognition"
)

// ProviderName is the registered backend name.
const ProviderName = "openai"

const defaultTimeout = 10 * time.Minute

// Config holds OpenAI client settings.
type Config struct {
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the API base, e.g. for a compatible proxy.
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	// Timeout bounds a single API call.
	Timeout time.Duration `mapstructure:"timeout"`
}

type transcriber interface {
	CreateTranscription(ctx context.Context, req goopenai.AudioRequest) (goopenai.AudioResponse, error)
}

// Backend implements recognition.Backend on the OpenAI Whisper API.
type Backend struct {
	cfg    Config
	client transcriber
}

var _ recognition.Backend = (*Backend)(nil)

// New creates an OpenAI backend.
func New(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.Whisper1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Backend{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

// Factory returns a provider.Factory creating the backend from a config map.
func Factory() provider.Factory[recognition.Backend] {
	return func(m map[string]any) (recognition.Backend, error) {
		var cfg Config
		if err := provider.DecodeConfig(m, &cfg); err != nil {
			return nil, err
		}
		return New(cfg)
	}
}

// Name returns the backend name.
func (b *Backend) Name() string { return ProviderName }

// IsAvailable reports whether the backend has a client.
func (b *Backend) IsAvailable(context.Context) bool { return b.client != nil }

// Start launches a transcription of audio.LocalPath.
func (b *Backend) Start(ctx context.Context, cfg recognition.Config, audio recognition.Audio) (recognition.Operation, error) {
	if audio.LocalPath == "" {
		return nil, fmt.Errorf("%w: openai needs a local copy of %q", recognition.ErrUnsupportedURI, audio.URI)
	}
	req := goopenai.AudioRequest{
		Model:    b.cfg.Model,
		FilePath: audio.LocalPath,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
		Language: language(cfg.LanguageCode),
	}
	return recognition.Go(ctx, "openai/"+uuid.NewString(), b.cfg.Timeout, func(ctx context.Context) (*recognition.Result, error) {
		resp, err := b.client.CreateTranscription(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("openai transcription: %w", err)
		}
		return toResult(resp), nil
	}), nil
}

func language(code string) string {
	lang, _, _ := strings.Cut(code, "-")
	return strings.ToLower(lang)
}

func toResult(resp goopenai.AudioResponse) *recognition.Result {
	res := &recognition.Result{}
	if len(resp.Segments) == 0 {
		if text := strings.TrimSpace(resp.Text); text != "" {
			res.Segments = []recognition.Segment{{Alternatives: []recognition.Alternative{{Transcript: text}}}}
		}
		return res
	}
	res.Segments = make([]recognition.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		res.Segments[i] = recognition.Segment{
			Alternatives: []recognition.Alternative{{Transcript: strings.TrimSpace(seg.Text)}},
		}
	}
	return res
}
