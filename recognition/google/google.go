// Package google runs recognition jobs on Google Cloud Speech-to-Text
// long-running recognize.
package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1p1beta1"
	"cloud.google.com/go/speech/apiv1p1beta1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/recognition"
)

// ProviderName is the registered backend name.
const ProviderName = "google"

// Config holds Google Speech client settings.
type Config struct {
	// ProjectID is billed as the quota project.
	ProjectID string `mapstructure:"project_id"`
	// CredentialsFile is a service-account JSON key. Empty uses ADC.
	CredentialsFile string `mapstructure:"credentials_file"`
	// Endpoint overrides the API endpoint.
	Endpoint string `mapstructure:"endpoint"`
}

func (c Config) clientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	if c.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(c.ProjectID))
	}
	if c.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.Endpoint))
	}
	return opts
}

// recognizer is the slice of the Speech client the backend uses.
type recognizer interface {
	start(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (longRunning, error)
	Close() error
}

type longRunning interface {
	Name() string
	Wait(ctx context.Context) (*speechpb.LongRunningRecognizeResponse, error)
}

type speechClient struct{ c *speech.Client }

func (s speechClient) start(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (longRunning, error) {
	op, err := s.c.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, err
	}
	return speechOperation{op}, nil
}

func (s speechClient) Close() error { return s.c.Close() }

type speechOperation struct {
	op *speech.LongRunningRecognizeOperation
}

func (o speechOperation) Name() string { return o.op.Name() }

func (o speechOperation) Wait(ctx context.Context) (*speechpb.LongRunningRecognizeResponse, error) {
	return o.op.Wait(ctx)
}

// Backend implements recognition.Backend on Google Cloud Speech.
type Backend struct {
	client recognizer
}

var _ recognition.Backend = (*Backend)(nil)

// New creates a Speech client from cfg.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	c, err := speech.NewClient(ctx, cfg.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("google speech client: %w", err)
	}
	return &Backend{client: speechClient{c}}, nil
}

// Factory returns a provider.Factory creating the backend from a config map.
func Factory() provider.Factory[recognition.Backend] {
	return func(m map[string]any) (recognition.Backend, error) {
		var cfg Config
		if err := provider.DecodeConfig(m, &cfg); err != nil {
			return nil, err
		}
		return New(context.Background(), cfg)
	}
}

// Name returns the backend name.
func (b *Backend) Name() string { return ProviderName }

// IsAvailable reports whether the client was created.
func (b *Backend) IsAvailable(context.Context) bool { return b.client != nil }

// Close closes the Speech client.
func (b *Backend) Close() error { return b.client.Close() }

// Start submits a long-running recognize request for a gs:// URI.
func (b *Backend) Start(ctx context.Context, cfg recognition.Config, audio recognition.Audio) (recognition.Operation, error) {
	req, err := buildRequest(cfg, audio)
	if err != nil {
		return nil, err
	}
	op, err := b.client.start(ctx, req)
	if err != nil {
		return nil, apperrors.Submission(ProviderName, err).WithDetail("grpc_code", status.Code(err).String())
	}
	return &operation{op: op}, nil
}

func buildRequest(cfg recognition.Config, audio recognition.Audio) (*speechpb.LongRunningRecognizeRequest, error) {
	if !strings.HasPrefix(audio.URI, "gs://") {
		return nil, fmt.Errorf("%w: google requires gs://, got %q", recognition.ErrUnsupportedURI, audio.URI)
	}
	enc, err := encoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	rc := &speechpb.RecognitionConfig{
		Encoding:                   enc,
		SampleRateHertz:            cfg.SampleRateHz,
		LanguageCode:               cfg.LanguageCode,
		EnableAutomaticPunctuation: cfg.AutoPunctuation,
	}
	if cfg.Diarization {
		rc.DiarizationConfig = &speechpb.SpeakerDiarizationConfig{EnableSpeakerDiarization: true}
	}
	return &speechpb.LongRunningRecognizeRequest{
		Config: rc,
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Uri{Uri: audio.URI}},
	}, nil
}

func encoding(e recognition.Encoding) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch e {
	case recognition.EncodingLinear16:
		return speechpb.RecognitionConfig_LINEAR16, nil
	case recognition.EncodingFLAC:
		return speechpb.RecognitionConfig_FLAC, nil
	case recognition.EncodingMulaw:
		return speechpb.RecognitionConfig_MULAW, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding %q", e)
	}
}

type operation struct {
	op longRunning
}

func (o *operation) Name() string { return o.op.Name() }

// Wait polls the operation. A server-side deadline is reported as
// context.DeadlineExceeded; other API errors keep their gRPC code.
func (o *operation) Wait(ctx context.Context) (*recognition.Result, error) {
	resp, err := o.op.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		code := status.Code(err)
		if code == codes.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return nil, apperrors.Backend(ProviderName, err).
			WithDetail("grpc_code", code.String()).
			WithDetail("job", o.op.Name())
	}
	return toResult(resp), nil
}

func toResult(resp *speechpb.LongRunningRecognizeResponse) *recognition.Result {
	res := &recognition.Result{}
	if resp == nil {
		return res
	}
	res.Segments = make([]recognition.Segment, 0, len(resp.GetResults()))
	for _, r := range resp.GetResults() {
		seg := recognition.Segment{Alternatives: make([]recognition.Alternative, 0, len(r.GetAlternatives()))}
		for _, a := range r.GetAlternatives() {
			alt := recognition.Alternative{Transcript: a.GetTranscript(), Confidence: a.GetConfidence()}
			for _, w := range a.GetWords() {
				alt.Words = append(alt.Words, recognition.WordInfo{Word: w.GetWord(), SpeakerTag: w.GetSpeakerTag()})
			}
			seg.Alternatives = append(seg.Alternatives, alt)
		}
		res.Segments = append(res.Segments, seg)
	}
	return res
}
