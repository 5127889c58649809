// Package testutil provides a scriptable recognition.Backend for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/transcriber/recognition"
)

// Submission records one Start call.
type Submission struct {
	Config recognition.Config
	Audio  recognition.Audio
}

// Backend is a fake recognition.Backend. Set the exported fields before use.
type Backend struct {
	// BackendName defaults to "fake".
	BackendName string
	// Result is returned by Wait.
	Result *recognition.Result
	// StartErr fails Start.
	StartErr error
	// WaitErr fails Wait.
	WaitErr error
	// Block makes Wait block until its context is done.
	Block bool

	mu          sync.Mutex
	submissions []Submission
}

var _ recognition.Backend = (*Backend)(nil)

// NewBackend returns a fake that answers every job with result.
func NewBackend(result *recognition.Result) *Backend {
	return &Backend{Result: result}
}

// Transcripts builds a result with one segment per transcript.
func Transcripts(lines ...string) *recognition.Result {
	res := &recognition.Result{Segments: make([]recognition.Segment, 0, len(lines))}
	for _, l := range lines {
		res.Segments = append(res.Segments, recognition.Segment{
			Alternatives: []recognition.Alternative{{Transcript: l, Confidence: 0.9}},
		})
	}
	return res
}

// Name returns the backend name.
func (b *Backend) Name() string {
	if b.BackendName == "" {
		return "fake"
	}
	return b.BackendName
}

// IsAvailable always reports true.
func (b *Backend) IsAvailable(context.Context) bool { return true }

// Start records the submission.
func (b *Backend) Start(_ context.Context, cfg recognition.Config, audio recognition.Audio) (recognition.Operation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.StartErr != nil {
		return nil, b.StartErr
	}
	b.submissions = append(b.submissions, Submission{Config: cfg, Audio: audio})
	return &operation{b: b, name: fmt.Sprintf("operations/fake-%d", len(b.submissions))}, nil
}

// Submissions returns the recorded submissions.
func (b *Backend) Submissions() []Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Submission(nil), b.submissions...)
}

type operation struct {
	b    *Backend
	name string
}

func (o *operation) Name() string { return o.name }

func (o *operation) Wait(ctx context.Context) (*recognition.Result, error) {
	if o.b.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if o.b.WaitErr != nil {
		return nil, o.b.WaitErr
	}
	return o.b.Result, nil
}
