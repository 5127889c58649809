// Package transcript reduces recognition results to plain text.
package transcript

import (
	"strings"

	"github.com/kbukum/transcriber/recognition"
)

// ContentType is the media type of a rendered transcript.
const ContentType = "text/plain; charset=utf-8"

// Transcript is one line per recognized segment.
type Transcript struct {
	lines []string
}

// Reduce keeps the top alternative of every segment. A segment without
// alternatives yields an empty line so the line count equals the segment
// count. Word-level data, including speaker tags, is dropped.
func Reduce(res *recognition.Result) Transcript {
	if res == nil || len(res.Segments) == 0 {
		return Transcript{}
	}
	lines := make([]string, len(res.Segments))
	for i, seg := range res.Segments {
		if len(seg.Alternatives) > 0 {
			lines[i] = seg.Alternatives[0].Transcript
		}
	}
	return Transcript{lines: lines}
}

// FromLines builds a transcript from existing lines.
func FromLines(lines ...string) Transcript {
	return Transcript{lines: append([]string(nil), lines...)}
}

// Lines returns a copy of the lines.
func (t Transcript) Lines() []string {
	return append([]string(nil), t.lines...)
}

// Len returns the number of lines.
func (t Transcript) Len() int { return len(t.lines) }

// IsEmpty reports whether the transcript has no lines.
func (t Transcript) IsEmpty() bool { return len(t.lines) == 0 }

// String renders every line followed by "\n".
func (t Transcript) String() string {
	var b strings.Builder
	for _, l := range t.lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// Bytes renders the transcript as UTF-8 bytes.
func (t Transcript) Bytes() []byte {
	return []byte(t.String())
}
