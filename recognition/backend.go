package recognition

import (
	"context"
	"time"

	"github.com/kbukum/transcriber/provider"
)

// Backend submits recognition jobs to a speech service.
type Backend interface {
	provider.Provider

	// Start submits a job and returns without waiting for it to finish.
	Start(ctx context.Context, cfg Config, audio Audio) (Operation, error)
}

// Operation is a submitted, possibly still running, job.
type Operation interface {
	// Name returns the backend's identifier for the job.
	Name() string
	// Wait blocks until the job finishes or ctx is done.
	Wait(ctx context.Context) (*Result, error)
}

// Job is a submitted recognition job.
type Job struct {
	Backend     string
	SubmittedAt time.Time
	op          Operation
}

// Name returns the backend job identifier.
func (j *Job) Name() string {
	if j == nil || j.op == nil {
		return ""
	}
	return j.op.Name()
}

// NewRegistry creates a registry of recognition backends.
func NewRegistry() *provider.Registry[Backend] {
	return provider.NewRegistry[Backend]()
}

// asyncOperation runs a blocking recognition call in its own goroutine so
// that request/response backends fit the submit/await contract.
type asyncOperation struct {
	name   string
	done   chan struct{}
	result *Result
	err    error
}

// Go starts fn in the background and returns an Operation for it. fn gets a
// context detached from the submitting request, bounded by limit when
// positive; abandoning the Operation does not cancel it.
func Go(ctx context.Context, name string, limit time.Duration, fn func(ctx context.Context) (*Result, error)) Operation {
	op := &asyncOperation{name: name, done: make(chan struct{})}
	runCtx := context.WithoutCancel(ctx)
	var cancel context.CancelFunc = func() {}
	if limit > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, limit)
	}
	go func() {
		defer close(op.done)
		defer cancel()
		op.result, op.err = fn(runCtx)
	}()
	return op
}

func (o *asyncOperation) Name() string { return o.name }

func (o *asyncOperation) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-o.done:
		return o.result, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
