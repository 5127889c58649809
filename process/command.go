package process

import (
	"strconv"
	"strings"
	"time"
)

// DefaultStderrLimit bounds the stderr kept per run. ffmpeg logs every
// stream and progress line there; only the tail explains a failure.
const DefaultStderrLimit = 64 << 10

// Command is one invocation of an external tool such as ffmpeg. The child
// never gets a stdin, so tools that prompt (ffmpeg asks before overwriting
// without -y) read EOF instead of blocking.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is extra key=value pairs appended to the parent environment.
	Env []string
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
	// StderrLimit is the number of trailing stderr bytes kept.
	// Defaults to DefaultStderrLimit if zero.
	StderrLimit int
}

// String renders the command line for logs, quoting arguments that contain
// whitespace or quotes.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, a := range append([]string{c.Binary}, c.Args...) {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
