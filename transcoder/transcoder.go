// Package transcoder converts uploaded audio into the mono PCM WAV the
// recognition backend expects, by running ffmpeg.
package transcoder

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/process"
	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/resilience"
)

// OutputSuffix is appended to the source stem to name the converted file.
const OutputSuffix = "_converted.wav"

const stderrTailLines = 8

// Transcoder runs ffmpeg through the process adapter.
type Transcoder struct {
	cfg  Config
	exec provider.RequestResponse[process.Command, *process.Result]
	log  *logger.Logger
}

// New creates a Transcoder. Conversions are logged, traced and limited to
// cfg.MaxConcurrent at a time.
func New(cfg Config, serviceName string, log *logger.Logger) *Transcoder {
	cfg.ApplyDefaults()
	log = log.WithComponent("transcoder")

	adapter := process.NewAdapter(process.Config{
		Name:        "ffmpeg",
		GracePeriod: cfg.GracePeriod,
		Timeout:     cfg.Timeout,
	})
	chain := provider.Chain(
		provider.WithLogging[process.Command, *process.Result](log),
		provider.WithTracing[process.Command, *process.Result](serviceName),
		provider.WithResilience[process.Command, *process.Result](provider.ResilienceConfig{
			Bulkhead: &resilience.BulkheadConfig{
				Name:          "ffmpeg",
				MaxConcurrent: cfg.MaxConcurrent,
				MaxWait:       cfg.MaxWait,
			},
		}),
	)
	return &Transcoder{cfg: cfg, exec: chain(adapter), log: log}
}

// OutputPath returns <dir(src)>/<stem>_converted.wav.
func OutputPath(src string) string {
	dir, base := filepath.Split(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+OutputSuffix)
}

// Args returns the ffmpeg arguments converting src into dst.
func (t *Transcoder) Args(src, dst string) []string {
	return []string{
		"-y",
		"-i", src,
		"-acodec", "pcm_s16le",
		"-vn",
		"-ac", strconv.Itoa(t.cfg.Channels),
		"-ar", strconv.Itoa(t.cfg.SampleRateHz),
		"-f", "wav",
		dst,
	}
}

// Normalize converts src next to itself and returns the output path. An
// existing output is overwritten; src is left in place.
func (t *Transcoder) Normalize(ctx context.Context, src string) (string, error) {
	bin, err := process.LookPath(t.cfg.Binary)
	if err != nil {
		return "", apperrors.Transcode(src, err)
	}

	dst := OutputPath(src)
	cmd := process.Command{Binary: bin, Args: t.Args(src, dst)}
	res, err := t.exec.Execute(ctx, cmd)
	if err != nil {
		return "", t.wrap(src, res, err)
	}

	t.log.WithContext(ctx).Debug("audio normalized", logger.Fields(
		"source", src,
		"output", dst,
		"command", cmd.String(),
		logger.FieldDuration, res.Duration.Milliseconds(),
	))
	return dst, nil
}

func (t *Transcoder) wrap(src string, res *process.Result, err error) error {
	ae := apperrors.Transcode(src, err)
	switch {
	case errors.Is(err, resilience.ErrBulkheadFull), errors.Is(err, resilience.ErrBulkheadTimeout):
		ae = ae.WithDetail("reason", "too many concurrent conversions")
	case res != nil:
		ae = ae.WithDetail("exit_code", res.ExitCode)
		if tail := res.StderrTail(stderrTailLines); tail != "" {
			ae = ae.WithDetail("stderr", tail)
		}
	}
	return ae
}
