package transcoder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/logger"
)

// fakeFFmpeg writes a shell script standing in for ffmpeg and returns its path.
// The script records its arguments next to the output file.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	p := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\n" + body + "\n"
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

const okScript = `echo "$@" > "$last.args"
printf 'RIFFWAVE' > "$last"`

func newSource(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("ID3"), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"/tmp/r1/call.mp3":       "/tmp/r1/call_converted.wav",
		"/tmp/r1/call.final.ogg": "/tmp/r1/call.final_converted.wav",
		"/tmp/r1/noext":          "/tmp/r1/noext_converted.wav",
	}
	for in, want := range tests {
		if got := OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_Success(t *testing.T) {
	bin := fakeFFmpeg(t, okScript)
	src := newSource(t, "call.mp3")
	tr := New(Config{Binary: bin}, "test", logger.Nop())

	dst, err := tr.Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if dst != OutputPath(src) {
		t.Errorf("dst = %q", dst)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source removed: %v", err)
	}

	args, err := os.ReadFile(dst + ".args")
	if err != nil {
		t.Fatal(err)
	}
	want := "-y -i " + src + " -acodec pcm_s16le -vn -ac 1 -ar 8000 -f wav " + dst
	if got := strings.TrimSpace(string(args)); got != want {
		t.Errorf("args = %q\nwant   %q", got, want)
	}
}

func TestNormalize_Overwrites(t *testing.T) {
	bin := fakeFFmpeg(t, okScript)
	src := newSource(t, "call.mp3")
	if err := os.WriteFile(OutputPath(src), []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	dst, err := New(Config{Binary: bin}, "test", logger.Nop()).Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "RIFFWAVE" {
		t.Errorf("output = %q", data)
	}
}

func TestNormalize_NonZeroExit(t *testing.T) {
	bin := fakeFFmpeg(t, `echo "ffmpeg version n6.1" >&2
echo "call.mp3: Invalid data found when processing input" >&2
exit 1`)
	src := newSource(t, "call.mp3")

	_, err := New(Config{Binary: bin}, "test", logger.Nop()).Normalize(context.Background(), src)
	ae, ok := apperrors.AsAppError(err)
	if !ok || ae.Kind != apperrors.KindTranscode {
		t.Fatalf("err = %v", err)
	}
	stderr, _ := ae.Details["stderr"].(string)
	if !strings.Contains(stderr, "Invalid data found") {
		t.Errorf("stderr detail = %q", stderr)
	}
	if ae.Details["exit_code"] != 1 {
		t.Errorf("exit_code = %v", ae.Details["exit_code"])
	}
}

func TestNormalize_BinaryMissing(t *testing.T) {
	src := newSource(t, "call.mp3")
	_, err := New(Config{Binary: "/nonexistent/ffmpeg"}, "test", logger.Nop()).Normalize(context.Background(), src)
	if apperrors.KindOf(err) != apperrors.KindTranscode {
		t.Errorf("err = %v", err)
	}
}

func TestNormalize_Cancelled(t *testing.T) {
	bin := fakeFFmpeg(t, "sleep 5")
	src := newSource(t, "call.mp3")
	tr := New(Config{Binary: bin, GracePeriod: 100 * time.Millisecond}, "test", logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := tr.Normalize(ctx, src)
	if apperrors.KindOf(err) != apperrors.KindTranscode {
		t.Errorf("err = %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Error("process was not stopped on cancellation")
	}
}

func TestConfig_Defaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.Binary != "ffmpeg" || c.Channels != 1 || c.SampleRateHz != 8000 || c.MaxConcurrent < 1 {
		t.Errorf("defaults = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	bad := Config{Channels: -1, SampleRateHz: 8000}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative channels")
	}
}

func TestComponent_Health(t *testing.T) {
	bin := fakeFFmpeg(t, okScript)
	c := NewComponent(New(Config{Binary: bin}, "test", logger.Nop()))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != "healthy" {
		t.Errorf("health = %+v", h)
	}

	missing := NewComponent(New(Config{Binary: filepath.Join(t.TempDir(), "nope")}, "test", logger.Nop()))
	if err := missing.Start(context.Background()); err != nil {
		t.Fatalf("Start with missing binary: %v", err)
	}
	if h := missing.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("health = %+v", h)
	}
}
