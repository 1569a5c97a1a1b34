package driver

import (
	"fmt"
	"io"
	"sync"
)

// A ProgressSink receives a Progress each time the simulation enters a later
// hour.
type ProgressSink interface {
	Progress(p Progress)
}

// SinkFunc adapts a function to the ProgressSink interface.
type SinkFunc func(p Progress)

// Progress calls f(p).
func (f SinkFunc) Progress(p Progress) {
	f(p)
}

// Discard is a ProgressSink that drops everything.
var Discard ProgressSink = SinkFunc(func(Progress) {})

// ConsoleSink prints progress lines to a writer.
type ConsoleSink struct {
	mu        sync.Mutex
	w         io.Writer
	overwrite bool
}

// NewConsoleSink creates a sink that writes one line per progress report.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// NewOverwritingConsoleSink creates a sink that rewrites the same terminal
// line for every report. Call Done to move past the line.
func NewOverwritingConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w, overwrite: true}
}

// Progress writes the progress line.
func (s *ConsoleSink) Progress(p Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overwrite {
		fmt.Fprintf(s.w, "%-24s\r", p.String())
		return
	}

	fmt.Fprintln(s.w, p.String())
}

// Done terminates an overwriting progress line.
func (s *ConsoleSink) Done() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overwrite {
		fmt.Fprintln(s.w)
	}
}

// MultiSink forwards every report to all of its sinks in order.
type MultiSink []ProgressSink

// Progress forwards p.
func (m MultiSink) Progress(p Progress) {
	for _, s := range m {
		if s != nil {
			s.Progress(p)
		}
	}
}
