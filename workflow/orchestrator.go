// Package workflow runs one transcription request end to end: download,
// convert, recognize, aggregate and persist.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/observability"
	"github.com/kbukum/transcriber/recognition"
	"github.com/kbukum/transcriber/storage"
	"github.com/kbukum/transcriber/transcoder"
	"github.com/kbukum/transcriber/transcript"
	"github.com/kbukum/transcriber/validation"
)

// ConvertedContentType is the media type of the uploaded converted audio.
const ConvertedContentType = "audio/wav"

// Store moves files between the bucket and local disk. *storage.Gateway
// implements it.
type Store interface {
	Ref(key string) storage.ObjectRef
	URI(ref storage.ObjectRef) string
	Download(ctx context.Context, ref storage.ObjectRef, destDir string) (string, error)
	Upload(ctx context.Context, localPath string, ref storage.ObjectRef, contentType string) error
}

// Transcoder converts a local audio file. *transcoder.Transcoder implements it.
type Transcoder interface {
	Normalize(ctx context.Context, src string) (string, error)
}

// Recognizer submits and awaits recognition jobs. *recognition.Client implements it.
type Recognizer interface {
	Backend() string
	Submit(ctx context.Context, cfg recognition.Config, audio recognition.Audio) (*recognition.Job, error)
	Await(ctx context.Context, job *recognition.Job, timeout time.Duration) (*recognition.Result, error)
}

// Deps are the orchestrator's collaborators.
type Deps struct {
	Store      Store
	Transcoder Transcoder
	Recognizer Recognizer
	// Metrics may be nil.
	Metrics *observability.Metrics
	Log     *logger.Logger
}

// Outcome describes a successful run.
type Outcome struct {
	RequestID     string
	Filename      string
	Transcript    transcript.Transcript
	TranscriptRef storage.ObjectRef
	AudioRef      storage.ObjectRef
	JobName       string
	// Persisted is false when the transcript upload failed and the failure
	// was tolerated.
	Persisted bool
	Duration  time.Duration
}

// AttachmentName is the download name for the transcript, e.g. "call.txt".
func (o *Outcome) AttachmentName() string {
	return path.Base(o.TranscriptRef.Key)
}

// Orchestrator runs transcription requests. It holds no per-request state
// and is safe for concurrent use.
type Orchestrator struct {
	cfg  Config
	deps Deps
	log  *logger.Logger
}

// New creates an Orchestrator.
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Store == nil || deps.Transcoder == nil || deps.Recognizer == nil {
		return nil, errors.New("workflow: store, transcoder and recognizer are required")
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Orchestrator{cfg: cfg, deps: deps, log: deps.Log.WithComponent("workflow")}, nil
}

// Run transcribes the object named filename. The returned error is always
// an *errors.AppError whose Kind names the failed category.
func (o *Orchestrator) Run(ctx context.Context, filename string) (*Outcome, error) {
	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logger.ContextWithRequestID(ctx, requestID)
	}

	ctx, span := observability.StartSpan(ctx, "workflow.transcribe")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRequestID, requestID)
	observability.SetSpanAttribute(ctx, observability.AttrFilename, filename)

	r := &run{
		o:     o,
		state: StateReceived,
		start: time.Now(),
		log: o.log.WithContext(ctx).WithFields(logger.Fields(
			logger.FieldFilename, filename,
		)),
		out: &Outcome{RequestID: requestID, Filename: filename},
	}
	o.deps.Metrics.RecordStart(ctx)
	r.log.Info("transcription received", logger.Fields(logger.FieldState, r.state.String()))

	out, err := r.execute(ctx, filename)
	if err != nil {
		appErr := apperrors.Classify(err)
		r.fail(ctx, appErr)
		observability.SetSpanError(ctx, appErr)
		return nil, appErr
	}

	out.Duration = time.Since(r.start)
	r.transition(StateResponded)
	o.deps.Metrics.RecordEnd(ctx, "ok", out.Duration)
	r.log.Info("transcription completed", logger.Fields(
		"lines", out.Transcript.Len(),
		"persisted", out.Persisted,
		logger.FieldJob, out.JobName,
		logger.FieldDuration, out.Duration.Milliseconds(),
	))
	return out, nil
}

// run is the state of a single request.
type run struct {
	o     *Orchestrator
	state State
	start time.Time
	log   *logger.Logger
	out   *Outcome
}

func (r *run) execute(ctx context.Context, filename string) (*Outcome, error) {
	if err := validation.Filename("filename", filename); err != nil {
		return nil, err
	}

	o := r.o
	stem := validation.Stem(filename)
	scratch, err := o.scratchDir(r.out.RequestID)
	if err != nil {
		return nil, err
	}
	if !o.cfg.KeepScratch {
		defer func() {
			if rmErr := os.RemoveAll(scratch); rmErr != nil {
				r.log.Warn("scratch cleanup failed", logger.ErrorFields("cleanup", rmErr))
			}
		}()
	}

	var source, converted string
	if err := r.step(ctx, StateDownloading, func(ctx context.Context) error {
		source, err = o.deps.Store.Download(ctx, o.deps.Store.Ref(filename), scratch)
		return err
	}); err != nil {
		return nil, err
	}

	if err := r.step(ctx, StateTranscoding, func(ctx context.Context) error {
		if converted, err = o.deps.Transcoder.Normalize(ctx, source); err != nil {
			return err
		}
		r.out.AudioRef = o.deps.Store.Ref(stem + transcoder.OutputSuffix)
		return o.deps.Store.Upload(ctx, converted, r.out.AudioRef, ConvertedContentType)
	}); err != nil {
		return nil, err
	}

	var job *recognition.Job
	if err := r.step(ctx, StateSubmitting, func(ctx context.Context) error {
		job, err = o.deps.Recognizer.Submit(ctx, o.cfg.Recognition, recognition.Audio{
			URI:       o.deps.Store.URI(r.out.AudioRef),
			LocalPath: converted,
		})
		if err != nil {
			return err
		}
		r.out.JobName = job.Name()
		observability.SetSpanAttribute(ctx, observability.AttrJobName, job.Name())
		return nil
	}); err != nil {
		return nil, err
	}

	var result *recognition.Result
	if err := r.step(ctx, StateAwaiting, func(ctx context.Context) error {
		result, err = o.deps.Recognizer.Await(ctx, job, o.cfg.AwaitTimeout)
		return err
	}); err != nil {
		return nil, err
	}

	_ = r.step(ctx, StateAggregating, func(context.Context) error {
		r.out.Transcript = transcript.Reduce(result)
		return nil
	})

	if err := r.step(ctx, StatePersisting, func(ctx context.Context) error {
		return r.persist(ctx, stem, scratch)
	}); err != nil {
		return nil, err
	}
	return r.out, nil
}

// persist writes the transcript locally, then uploads it next to the source.
func (r *run) persist(ctx context.Context, stem, scratch string) error {
	o := r.o
	r.out.TranscriptRef = o.deps.Store.Ref(stem + ".txt")
	local := filepath.Join(scratch, path.Base(stem)+".txt")

	if err := os.WriteFile(local, r.out.Transcript.Bytes(), 0o600); err != nil {
		return apperrors.Storage("write", local, err)
	}

	err := o.deps.Store.Upload(ctx, local, r.out.TranscriptRef, transcript.ContentType)
	if err == nil {
		r.out.Persisted = true
		return nil
	}
	if o.cfg.FailOnPersistError {
		return err
	}
	r.log.Warn("transcript upload failed; returning transcript anyway",
		logger.ErrorFields("persist", err))
	return nil
}

// step moves the run into state and executes fn inside a span.
func (r *run) step(ctx context.Context, state State, fn func(ctx context.Context) error) error {
	r.transition(state)

	ctx, span := observability.StartSpan(ctx, "workflow."+state.String())
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrStep, state.String())

	start := time.Now()
	err := fn(ctx)
	status := "ok"
	if err != nil {
		status = "error"
		observability.SetSpanError(ctx, err)
	}
	r.o.deps.Metrics.RecordStep(ctx, state.String(), status, time.Since(start))
	return err
}

func (r *run) transition(to State) {
	if !canTransition(r.state, to) {
		// Steps run in declaration order; anything else is a bug.
		panic(fmt.Sprintf("workflow: invalid transition %s -> %s", r.state, to))
	}
	r.log.Debug("state transition", logger.Fields("from", r.state.String(), logger.FieldState, to.String()))
	r.state = to
}

func (r *run) fail(ctx context.Context, err *apperrors.AppError) {
	failedIn := r.state
	r.transition(StateFailed)

	dur := time.Since(r.start)
	r.o.deps.Metrics.RecordError(ctx, string(err.Kind), failedIn.String())
	r.o.deps.Metrics.RecordEnd(ctx, string(err.Kind), dur)
	observability.SetSpanAttribute(ctx, observability.AttrErrorKind, string(err.Kind))

	fields := logger.Fields(
		logger.FieldKind, string(err.Kind),
		"step", failedIn.String(),
		logger.FieldDuration, dur.Milliseconds(),
	)
	if err.Kind == apperrors.KindValidation {
		r.log.WithError(err).Info("transcription rejected", fields)
		return
	}
	r.log.WithError(err).Error("transcription failed", fields)
}

// scratchDir creates the run's private directory. Request IDs that are not
// UUIDs come from clients and are not used as path elements.
func (o *Orchestrator) scratchDir(requestID string) (string, error) {
	name := requestID
	if _, err := uuid.Parse(requestID); err != nil {
		name = uuid.NewString()
	}
	dir := filepath.Join(o.cfg.ScratchRoot, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", apperrors.Internal(fmt.Errorf("create scratch dir: %w", err))
	}
	return dir, nil
}
