package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/transcriber/recognition"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "call_converted.wav")
	if err := os.WriteFile(p, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBackend_Transcribe(t *testing.T) {
	var gotLang, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotLang = r.FormValue("language")
		gotModel = r.FormValue("model")
		_ = json.NewEncoder(w).Encode(whisperResponse{
			Text: "hola buenos dias",
			Segments: []whisperSegment{
				{Text: " hola", Start: 0, End: 1},
				{Text: " buenos dias", Start: 1, End: 2},
			},
		})
	}))
	defer srv.Close()

	b := New(Config{URL: srv.URL, Model: "small"})
	op, err := b.Start(context.Background(), recognition.DefaultConfig(), recognition.Audio{
		URI:       "gs://bucket/call_converted.wav",
		LocalPath: writeAudio(t),
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	res, err := op.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if len(res.Segments) != 2 {
		t.Fatalf("segments = %d", len(res.Segments))
	}
	if got := res.Segments[1].Alternatives[0].Transcript; got != "buenos dias" {
		t.Errorf("transcript = %q", got)
	}
	if gotLang != "es" || gotModel != "small" {
		t.Errorf("language = %q, model = %q", gotLang, gotModel)
	}
}

func TestBackend_SidecarError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	op, err := New(Config{URL: srv.URL}).Start(context.Background(), recognition.DefaultConfig(),
		recognition.Audio{LocalPath: writeAudio(t)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := op.Wait(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBackend_RequiresLocalPath(t *testing.T) {
	_, err := New(Config{}).Start(context.Background(), recognition.DefaultConfig(),
		recognition.Audio{URI: "gs://bucket/a.wav"})
	if !errors.Is(err, recognition.ErrUnsupportedURI) {
		t.Errorf("err = %v", err)
	}
}

func TestBackend_WaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	op, err := New(Config{URL: srv.URL}).Start(context.Background(), recognition.DefaultConfig(),
		recognition.Audio{LocalPath: writeAudio(t)})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := op.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v", err)
	}
}

func TestBaseLanguage(t *testing.T) {
	for in, want := range map[string]string{"es-ES": "es", "en": "en", "": ""} {
		if got := baseLanguage(in); got != want {
			t.Errorf("baseLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
