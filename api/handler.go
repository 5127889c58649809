package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/server"
	"github.com/kbukum/transcriber/server/middleware"
	"github.com/kbukum/transcriber/transcript"
	"github.com/kbukum/transcriber/validation"
	"github.com/kbukum/transcriber/workflow"
)

// TranscribePath is the route of the transcription endpoint.
const TranscribePath = "/transcribir_audio"

// Transcriber runs one transcription request end to end.
type Transcriber interface {
	Run(ctx context.Context, filename string) (*workflow.Outcome, error)
}

// Deferred is a Transcriber whose target is supplied after the route is
// mounted. Until Set is called, Run fails with a 503.
type Deferred struct {
	target atomic.Pointer[transcriberRef]
}

type transcriberRef struct{ Transcriber }

// Set installs the target. It is safe to call while requests are served.
func (d *Deferred) Set(t Transcriber) {
	d.target.Store(&transcriberRef{t})
}

// Run forwards to the target.
func (d *Deferred) Run(ctx context.Context, filename string) (*workflow.Outcome, error) {
	ref := d.target.Load()
	if ref == nil {
		return nil, apperrors.ServiceUnavailable("transcriber")
	}
	return ref.Run(ctx, filename)
}

// TranscribeRequest is the JSON body of POST /transcribir_audio.
type TranscribeRequest struct {
	Filename string `json:"filename" validate:"required,notblank,objectkey"`
}

// Handler serves the transcription endpoint.
type Handler struct {
	transcriber Transcriber
	log         *logger.Logger
}

// NewHandler creates a Handler backed by t.
func NewHandler(t Transcriber, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{transcriber: t, log: log.WithComponent("api")}
}

// Register mounts the handler's routes on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST(TranscribePath, h.Transcribe)
}

// Transcribe handles POST /transcribir_audio. On success the transcript is
// returned as a text attachment; failures are JSON {"error", "kind"} bodies.
func (h *Handler) Transcribe(c *gin.Context) {
	var req TranscribeRequest
	if err := bindJSON(c, &req); err != nil {
		h.log.WithContext(c.Request.Context()).Debug("rejected request body", logger.ErrorFields("bind", err))
		server.RespondWithError(c, err)
		return
	}

	out, err := h.transcriber.Run(c.Request.Context(), req.Filename)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	if c.Writer.Header().Get(middleware.HeaderRequestID) == "" && out.RequestID != "" {
		c.Header(middleware.HeaderRequestID, out.RequestID)
	}
	c.Header("Content-Disposition", attachment(out.AttachmentName()))
	c.Data(http.StatusOK, transcript.ContentType, out.Transcript.Bytes())
}

// bindJSON decodes the body into req and validates it. Every failure is a
// validation error, so a bad body never reaches the workflow.
func bindJSON(c *gin.Context, req *TranscribeRequest) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperrors.Validation("request body too large")
		case errors.Is(err, io.EOF):
			return apperrors.MissingField("filename")
		default:
			return apperrors.Validation("request body must be a JSON object with a string filename").WithCause(err)
		}
	}
	return validation.Validate(req)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func attachment(name string) string {
	return `attachment; filename="` + quoteEscaper.Replace(name) + `"`
}
