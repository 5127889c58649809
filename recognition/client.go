package recognition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/resilience"
)

// DefaultTimeout bounds Await when the caller passes no timeout.
const DefaultTimeout = 180 * time.Second

// ErrUnsupportedURI is returned by backends that cannot read the audio URI.
var ErrUnsupportedURI = errors.New("recognition: unsupported audio uri")

// ClientConfig configures a Client.
type ClientConfig struct {
	// Timeout is the Await default for non-positive timeouts.
	Timeout time.Duration
	// CircuitBreaker guards Submit when set.
	CircuitBreaker *resilience.CircuitBreakerConfig
}

// Client submits jobs to a Backend and awaits their results. It does not
// retry, and a job that times out is abandoned without cancellation.
type Client struct {
	backend Backend
	timeout time.Duration
	state   *provider.ResilienceState
	log     *logger.Logger
}

// NewClient creates a Client over backend.
func NewClient(backend Backend, cfg ClientConfig, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		backend: backend,
		timeout: cfg.Timeout,
		state:   provider.BuildResilience(provider.ResilienceConfig{CircuitBreaker: cfg.CircuitBreaker}),
		log:     log.WithComponent("recognition").WithFields(logger.Fields(logger.FieldBackend, backend.Name())),
	}
}

// Backend returns the name of the backend jobs are sent to.
func (c *Client) Backend() string { return c.backend.Name() }

// Timeout returns the default Await timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Submit starts a recognition job. Every failure, including an invalid cfg,
// is a submission error.
func (c *Client) Submit(ctx context.Context, cfg Config, audio Audio) (*Job, error) {
	name := c.backend.Name()
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Submission(name, fmt.Errorf("invalid recognition config: %w", err))
	}
	if strings.TrimSpace(audio.URI) == "" && strings.TrimSpace(audio.LocalPath) == "" {
		return nil, apperrors.Submission(name, errors.New("audio reference is empty"))
	}

	op, err := provider.ExecuteWithResilience(ctx, c.state, func() (Operation, error) {
		return c.backend.Start(ctx, cfg, audio)
	})
	if err != nil {
		if ae, ok := apperrors.AsAppError(err); ok && ae.Kind == apperrors.KindSubmission {
			return nil, ae
		}
		return nil, apperrors.Submission(name, err)
	}

	job := &Job{Backend: name, SubmittedAt: time.Now(), op: op}
	c.log.WithContext(ctx).Info("recognition job submitted", logger.Fields(logger.FieldJob, job.Name(), "uri", audio.URI))
	return job, nil
}

// Await blocks until job finishes or timeout elapses. Deadline expiry is a
// timeout error; any other failure is a backend error.
func (c *Client) Await(ctx context.Context, job *Job, timeout time.Duration) (*Result, error) {
	name := c.backend.Name()
	if job == nil || job.op == nil {
		return nil, apperrors.Backend(name, errors.New("no job to await"))
	}
	if timeout <= 0 {
		timeout = c.timeout
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := job.op.Wait(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			c.log.WithContext(ctx).Warn("recognition job abandoned after timeout",
				logger.Fields(logger.FieldJob, job.Name(), "timeout", timeout.String()))
			return nil, apperrors.Timeout("recognition").
				WithDetail("job", job.Name()).
				WithDetail("timeout", timeout.String()).
				WithCause(err)
		}
		if ae, ok := apperrors.AsAppError(err); ok {
			return nil, ae
		}
		return nil, apperrors.Backend(name, err).WithDetail("job", job.Name())
	}
	if res == nil {
		res = &Result{}
	}

	c.log.WithContext(ctx).Debug("recognition job finished", logger.Fields(
		logger.FieldJob, job.Name(),
		"segments", len(res.Segments),
		"elapsed", time.Since(job.SubmittedAt).String(),
	))
	return res, nil
}
