// Package shared provides helpers common to interpreter backends.
package shared

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonwraymond/codeplay/runtime"
)

// InterruptOnDone arranges for interrupt to run once ctx ends, passing the
// context error text as the reason. Calling the returned stop func before
// that disarms it; stop reports whether it did.
func InterruptOnDone(ctx context.Context, interrupt func(reason string)) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		interrupt(ctx.Err().Error())
	})
}

// InterruptCause returns the error a backend reports when ctx stopped a
// program. It matches runtime.ErrInterrupted and the context error.
func InterruptCause(ctx context.Context) error {
	cause := ctx.Err()
	if cause == nil {
		cause = context.Canceled
	}
	return runtime.Interrupted(cause)
}

// FormatArgs joins already-stringified print arguments with sep.
func FormatArgs(args []string, sep string) string {
	return strings.Join(args, sep)
}

// Marker finds "filename:line:col" and "filename: Line line:col" positions
// in error text. A nil Marker finds nothing.
type Marker struct {
	re *regexp.Regexp
}

// NewMarker compiles the position pattern for filename. An empty filename
// returns nil.
func NewMarker(filename string) *Marker {
	if filename == "" {
		return nil
	}
	return &Marker{re: regexp.MustCompile(regexp.QuoteMeta(filename) + `:\s*(?:Line\s+)?(\d+)(?::(\d+))?`)}
}

// LineCol returns the position of the first marker in text. Zeros mean no
// marker was found.
func (m *Marker) LineCol(text string) (line, col int) {
	if m == nil {
		return 0, 0
	}
	match := m.re.FindStringSubmatch(text)
	if match == nil {
		return 0, 0
	}
	line, _ = strconv.Atoi(match[1])
	if match[2] != "" {
		col, _ = strconv.Atoi(match[2])
	}
	return line, col
}

// FirstLine returns text up to the first newline.
func FirstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
