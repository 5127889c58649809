package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the end of standard error, at most Command.StderrLimit bytes.
	Stderr []byte
	// Truncated reports that earlier stderr output was discarded.
	Truncated bool
	// ExitCode is the process exit code. -1 if the process never ran or was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// StderrTail returns at most the last n complete lines of stderr, trimmed.
// ffmpeg prints its build banner and stream map before the actual error.
func (r *Result) StderrTail(n int) string {
	if r == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(string(r.Stderr)), "\n")
	if r.Truncated && len(lines) > 1 {
		lines = lines[1:]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
