// Package testutil provides test utilities for structured logging.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Records collects the messages logged at or above a level.
type Records struct {
	mu       sync.Mutex
	level    slog.Level
	messages []string
}

// NewRecordingLogger returns a logger that writes to t.Log() and records
// every message at level or above.
func NewRecordingLogger(t testing.TB, level slog.Level) (*slog.Logger, *Records) {
	t.Helper()
	r := &Records{level: level}
	return slog.New(recordingHandler{r: r, next: NewTestLogger(t).Handler()}), r
}

// Messages returns the recorded messages in order.
func (r *Records) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func (r *Records) add(rec slog.Record) {
	if rec.Level < r.level {
		return
	}
	r.mu.Lock()
	r.messages = append(r.messages, rec.Message)
	r.mu.Unlock()
}

type recordingHandler struct {
	r    *Records
	next slog.Handler
}

func (h recordingHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h recordingHandler) Handle(ctx context.Context, rec slog.Record) error {
	h.r.add(rec)
	return h.next.Handle(ctx, rec)
}

func (h recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return recordingHandler{r: h.r, next: h.next.WithAttrs(attrs)}
}

func (h recordingHandler) WithGroup(name string) slog.Handler {
	return recordingHandler{r: h.r, next: h.next.WithGroup(name)}
}
