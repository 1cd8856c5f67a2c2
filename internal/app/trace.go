package app

import (
	"bytes"
	"io"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// traceSelector hands out one Go-logger trace per key, all writing to the
// same output at the same level. The keyboard puts the terminal in raw
// mode, so traces go to stderr rather than the composed text on stdout.
type traceSelector struct {
	mu     sync.Mutex
	out    io.Writer
	level  tracing.TraceLevel
	traces map[string]tracing.Trace
}

func newTraceSelector(out io.Writer, level tracing.TraceLevel) *traceSelector {
	return &traceSelector{out: out, level: level, traces: make(map[string]tracing.Trace)}
}

func (s *traceSelector) Select(key string) tracing.Trace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.traces[key]; ok {
		return t
	}
	t := gologadapter.New()
	t.SetOutput(s.out)
	t.SetTraceLevel(s.level)
	s.traces[key] = t
	return t
}

// installTracing routes every "skkfe.*" tracer through a fresh selector.
func installTracing(out io.Writer, debug bool) {
	level := tracing.LevelError
	if debug {
		level = tracing.LevelDebug
	}
	tracing.SetTraceSelector(newTraceSelector(out, level))
}

// rawLineWriter ends lines with CRLF for a terminal in raw mode.
type rawLineWriter struct {
	w io.Writer
}

func (r rawLineWriter) Write(p []byte) (int, error) {
	if _, err := r.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
