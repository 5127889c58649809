package process_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/transcriber/process"
)

const banner = `echo "ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers" >&2
echo "  configuration: --enable-gpl --enable-libmp3lame" >&2`

// fakeFFmpeg installs a shell script named ffmpeg in a fresh directory and
// returns its path. $last holds the final argument, the output file.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	p := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\n" + banner + "\n" + body + "\n"
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun_Converts(t *testing.T) {
	bin := fakeFFmpeg(t, `printf 'RIFFWAVE' > "$last"`)
	dst := filepath.Join(t.TempDir(), "call_converted.wav")

	res, err := process.Run(context.Background(), process.Command{
		Binary: bin,
		Args:   []string{"-y", "-i", "call.mp3", "-ar", "8000", "-f", "wav", dst},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
	if data, err := os.ReadFile(dst); err != nil || string(data) != "RIFFWAVE" {
		t.Errorf("output = %q, %v", data, err)
	}
	if !strings.Contains(string(res.Stderr), "ffmpeg version") {
		t.Errorf("stderr = %q", res.Stderr)
	}
	if res.Truncated {
		t.Error("short stderr must not be truncated")
	}
}

func TestRun_InvalidInputKeepsErrorTail(t *testing.T) {
	bin := fakeFFmpeg(t, `echo "Input #0, mp3, from 'call.mp3':" >&2
echo "call.mp3: Invalid data found when processing input" >&2
exit 1`)

	res, err := process.Run(context.Background(), process.Command{Binary: bin, Args: []string{"-i", "call.mp3", "out.wav"}})
	if err == nil || errors.Is(err, process.ErrNotFound) {
		t.Fatalf("Run() error = %v, want exit failure", err)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if got := res.StderrTail(1); got != "call.mp3: Invalid data found when processing input" {
		t.Errorf("StderrTail(1) = %q", got)
	}
}

func TestRun_StdinIsEmpty(t *testing.T) {
	// ffmpeg reads stdin for interactive commands; a child that waits on it
	// would hang the request.
	bin := fakeFFmpeg(t, `if read answer; then echo "read $answer"; exit 3; fi`)

	res, err := process.Run(context.Background(), process.Command{Binary: bin, Args: []string{"out.wav"}})
	if err != nil {
		t.Fatalf("Run: %v (stdout %q)", err, res.Stdout)
	}
}

func TestRun_StderrLimitKeepsCompleteTail(t *testing.T) {
	bin := fakeFFmpeg(t, `i=0
while [ $i -lt 500 ]; do echo "frame=$i fps=0.0 size=0kB" >&2; i=$((i+1)); done
echo "conversion failed" >&2
exit 1`)

	res, err := process.Run(context.Background(), process.Command{Binary: bin, Args: []string{"out.wav"}, StderrLimit: 256})
	if err == nil {
		t.Fatal("expected exit failure")
	}
	if len(res.Stderr) > 256 {
		t.Errorf("kept %d stderr bytes, limit 256", len(res.Stderr))
	}
	if !res.Truncated {
		t.Error("expected Truncated")
	}
	if strings.Contains(string(res.Stderr), "ffmpeg version") {
		t.Error("banner should have been discarded")
	}
	tail := res.StderrTail(100)
	if !strings.HasSuffix(tail, "conversion failed") {
		t.Errorf("tail = %q", tail)
	}
	for _, line := range strings.Split(tail, "\n") {
		if line != "conversion failed" && !strings.HasPrefix(line, "frame=") {
			t.Errorf("partial line in tail: %q", line)
		}
	}
}

func TestRun_CancelStopsConversion(t *testing.T) {
	bin := fakeFFmpeg(t, `sleep 30 &
wait`)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := process.Run(ctx, process.Command{Binary: bin, Args: []string{"out.wav"}, GracePeriod: 500 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
	if res.Duration > 5*time.Second {
		t.Errorf("conversion outlived its context: %v", res.Duration)
	}
}

func TestRun_EnvAndDir(t *testing.T) {
	bin := fakeFFmpeg(t, `echo "$FFREPORT"
pwd`)
	dir := t.TempDir()

	res, err := process.Run(context.Background(), process.Command{
		Binary: bin,
		Dir:    dir,
		Env:    []string{"FFREPORT=file=report.log:level=32"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(res.Stdout)), "\n")
	if len(lines) != 2 || lines[0] != "file=report.log:level=32" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
	want, _ := filepath.EvalSymlinks(dir)
	if got, _ := filepath.EvalSymlinks(lines[1]); got != want {
		t.Errorf("working dir = %q, want %q", got, want)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	if _, err := process.Run(context.Background(), process.Command{}); err == nil {
		t.Error("expected error for empty binary")
	}

	res, err := process.Run(context.Background(), process.Command{Binary: filepath.Join(t.TempDir(), "ffmpeg")})
	if !errors.Is(err, process.ErrNotFound) {
		t.Fatalf("Run() error = %v, want ErrNotFound", err)
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
}

func TestLookPath_ResolvesFFmpegOnPath(t *testing.T) {
	bin := fakeFFmpeg(t, "")
	t.Setenv("PATH", filepath.Dir(bin))

	got, err := process.LookPath("ffmpeg")
	if err != nil || got != bin {
		t.Fatalf("LookPath(ffmpeg) = %q, %v, want %q", got, err, bin)
	}

	t.Setenv("PATH", t.TempDir())
	if _, err := process.LookPath("ffmpeg"); !errors.Is(err, process.ErrNotFound) {
		t.Errorf("LookPath() error = %v, want ErrNotFound", err)
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		cmd  process.Command
		want string
	}{
		{
			process.Command{Binary: "/usr/bin/ffmpeg", Args: []string{"-y", "-i", "/tmp/r1/call.mp3", "-ar", "8000", "/tmp/r1/call_converted.wav"}},
			"/usr/bin/ffmpeg -y -i /tmp/r1/call.mp3 -ar 8000 /tmp/r1/call_converted.wav",
		},
		{
			process.Command{Binary: "ffmpeg", Args: []string{"-i", "/tmp/r1/llamada cliente.mp3", "-metadata", "title="}},
			`ffmpeg -i "/tmp/r1/llamada cliente.mp3" -metadata title=`,
		},
		{
			process.Command{Binary: "ffmpeg", Args: []string{"-i", ""}},
			`ffmpeg -i ""`,
		},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestStderrTail(t *testing.T) {
	r := &process.Result{Stderr: []byte("ffmpeg version 6.1.1\nInput #0\ncall.mp3: Invalid data found\n")}
	if got := r.StderrTail(1); got != "call.mp3: Invalid data found" {
		t.Errorf("StderrTail(1) = %q", got)
	}
	if got := r.StderrTail(10); !strings.HasPrefix(got, "ffmpeg version") {
		t.Errorf("StderrTail(10) = %q, want all lines", got)
	}

	cut := &process.Result{Stderr: []byte("ion 6.1.1\nInput #0\n"), Truncated: true}
	if got := cut.StderrTail(10); got != "Input #0" {
		t.Errorf("truncated StderrTail = %q, want the partial first line dropped", got)
	}

	var nilResult *process.Result
	if nilResult.StderrTail(3) != "" {
		t.Error("expected empty tail for nil result")
	}
}

func TestAdapter_TimeoutBoundsConversion(t *testing.T) {
	bin := fakeFFmpeg(t, "sleep 5")
	a := process.NewAdapter(process.Config{Name: "ffmpeg", Timeout: 50 * time.Millisecond, GracePeriod: 100 * time.Millisecond})
	if a.Name() != "ffmpeg" {
		t.Errorf("Name() = %q", a.Name())
	}
	if _, err := a.Execute(context.Background(), process.Command{Binary: bin, Args: []string{"out.wav"}}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Execute() error = %v, want deadline exceeded", err)
	}
}
