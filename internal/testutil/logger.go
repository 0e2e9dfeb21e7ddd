// Package testutil provides logging helpers for tests.
package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// LogRecorder captures text-formatted log output for assertions.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// String returns everything logged so far.
func (r *LogRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// NewRecordingLogger returns a logger that writes to t.Log() and
// also records every line in the returned LogRecorder.
func NewRecordingLogger(t testing.TB) (*slog.Logger, *LogRecorder) {
	t.Helper()
	rec := &LogRecorder{}
	logger := slog.New(slog.NewTextHandler(testWriter{t: t, rec: rec}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, rec
}

type testWriter struct {
	t   testing.TB
	rec *LogRecorder
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	if w.rec != nil {
		w.rec.mu.Lock()
		w.rec.buf.Write(p)
		w.rec.mu.Unlock()
	}
	w.t.Log(string(p))
	return len(p), nil
}
