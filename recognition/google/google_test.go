package google

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/speech/apiv1p1beta1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/recognition"
)

type fakeRecognizer struct {
	req      *speechpb.LongRunningRecognizeRequest
	startErr error
	resp     *speechpb.LongRunningRecognizeResponse
	waitErr  error
}

func (f *fakeRecognizer) start(_ context.Context, req *speechpb.LongRunningRecognizeRequest) (longRunning, error) {
	f.req = req
	if f.startErr != nil {
		return nil, f.startErr
	}
	return fakeOp{f}, nil
}

func (f *fakeRecognizer) Close() error { return nil }

type fakeOp struct{ f *fakeRecognizer }

func (o fakeOp) Name() string { return "operations/123" }

func (o fakeOp) Wait(context.Context) (*speechpb.LongRunningRecognizeResponse, error) {
	return o.f.resp, o.f.waitErr
}

var wav = recognition.Audio{URI: "gs://bucket/call_converted.wav"}

func TestStart_BuildsRequest(t *testing.T) {
	f := &fakeRecognizer{}
	b := &Backend{client: f}

	op, err := b.Start(context.Background(), recognition.DefaultConfig(), wav)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if op.Name() != "operations/123" {
		t.Errorf("name = %q", op.Name())
	}

	cfg := f.req.GetConfig()
	if cfg.GetEncoding() != speechpb.RecognitionConfig_LINEAR16 ||
		cfg.GetSampleRateHertz() != 8000 ||
		cfg.GetLanguageCode() != "es-ES" ||
		!cfg.GetEnableAutomaticPunctuation() {
		t.Errorf("config = %v", cfg)
	}
	if cfg.GetDiarizationConfig() != nil {
		t.Error("diarization should be off by default")
	}
	if f.req.GetAudio().GetUri() != wav.URI {
		t.Errorf("uri = %q", f.req.GetAudio().GetUri())
	}
}

func TestStart_Diarization(t *testing.T) {
	f := &fakeRecognizer{}
	cfg := recognition.DefaultConfig()
	cfg.Diarization = true

	if _, err := (&Backend{client: f}).Start(context.Background(), cfg, wav); err != nil {
		t.Fatal(err)
	}
	if !f.req.GetConfig().GetDiarizationConfig().GetEnableSpeakerDiarization() {
		t.Error("diarization not requested")
	}
}

func TestStart_RejectsNonGCSURI(t *testing.T) {
	_, err := (&Backend{client: &fakeRecognizer{}}).Start(context.Background(), recognition.DefaultConfig(),
		recognition.Audio{URI: "s3://bucket/a.wav"})
	if !errors.Is(err, recognition.ErrUnsupportedURI) {
		t.Errorf("err = %v", err)
	}
}

func TestStart_APIErrorIsSubmission(t *testing.T) {
	f := &fakeRecognizer{startErr: status.Error(codes.PermissionDenied, "no access")}
	_, err := (&Backend{client: f}).Start(context.Background(), recognition.DefaultConfig(), wav)
	ae, ok := apperrors.AsAppError(err)
	if !ok || ae.Kind != apperrors.KindSubmission {
		t.Fatalf("err = %v", err)
	}
	if ae.Details["grpc_code"] != codes.PermissionDenied.String() {
		t.Errorf("details = %v", ae.Details)
	}
}

func TestWait_ConvertsResults(t *testing.T) {
	f := &fakeRecognizer{resp: &speechpb.LongRunningRecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{
				Transcript: "hola",
				Confidence: 0.93,
				Words:      []*speechpb.WordInfo{{Word: "hola", SpeakerTag: 1}},
			}}},
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "buenos dias"}, {Transcript: "buenos días"}}},
		},
	}}
	op, err := (&Backend{client: f}).Start(context.Background(), recognition.DefaultConfig(), wav)
	if err != nil {
		t.Fatal(err)
	}
	res, err := op.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("segments = %d", len(res.Segments))
	}
	first := res.Segments[0].Alternatives[0]
	if first.Transcript != "hola" || len(first.Words) != 1 || first.Words[0].SpeakerTag != 1 {
		t.Errorf("first = %+v", first)
	}
	if len(res.Segments[1].Alternatives) != 2 {
		t.Errorf("alternatives = %d", len(res.Segments[1].Alternatives))
	}
}

func TestWait_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantDeadline bool
	}{
		{"server deadline", status.Error(codes.DeadlineExceeded, "deadline"), true},
		{"context deadline", context.DeadlineExceeded, true},
		{"invalid audio", status.Error(codes.InvalidArgument, "bad audio"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRecognizer{waitErr: tt.err}
			op, err := (&Backend{client: f}).Start(context.Background(), recognition.DefaultConfig(), wav)
			if err != nil {
				t.Fatal(err)
			}
			_, err = op.Wait(context.Background())
			if got := errors.Is(err, context.DeadlineExceeded); got != tt.wantDeadline {
				t.Errorf("deadline = %v, err = %v", got, err)
			}
			if !tt.wantDeadline && apperrors.KindOf(err) != apperrors.KindBackend {
				t.Errorf("kind = %q", apperrors.KindOf(err))
			}
		})
	}
}
