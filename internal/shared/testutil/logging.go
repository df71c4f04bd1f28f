// Package testutil holds test helpers shared across packages.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Record is one captured log entry, with attributes from With included
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// recorder is shared by a handler and every handler derived from it
type recorder struct {
	mu      sync.Mutex
	records []Record
}

// LogHandler captures records for assertions
type LogHandler struct {
	rec   *recorder
	attrs []slog.Attr
	group string
}

// NewLogger returns a logger whose output is captured by the handler
func NewLogger() (*slog.Logger, *LogHandler) {
	h := &LogHandler{rec: &recorder{}}
	return slog.New(h), h
}

// Enabled implements slog.Handler; every level is captured
func (h *LogHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler
func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Any()
		return true
	})
	h.rec.mu.Lock()
	h.rec.records = append(h.rec.records, Record{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.rec.mu.Unlock()
	return nil
}

func (h *LogHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// WithAttrs implements slog.Handler
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &LogHandler{rec: h.rec, group: h.group}
	next.attrs = append(append(next.attrs, h.attrs...), attrs...)
	for i := len(h.attrs); i < len(next.attrs); i++ {
		next.attrs[i].Key = h.key(next.attrs[i].Key)
	}
	return next
}

// WithGroup implements slog.Handler
func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{rec: h.rec, attrs: h.attrs, group: h.key(name)}
}

// Records returns a copy of everything captured
func (h *LogHandler) Records() []Record {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	return append([]Record(nil), h.rec.records...)
}

// Find returns the records at level whose message contains msg
func (h *LogHandler) Find(level slog.Level, msg string) []Record {
	var out []Record
	for _, r := range h.Records() {
		if r.Level == level && strings.Contains(r.Message, msg) {
			out = append(out, r)
		}
	}
	return out
}

// AssertLogged fails unless a record at level contains msg, and returns
// the first match
func AssertLogged(t *testing.T, h *LogHandler, level slog.Level, msg string) Record {
	t.Helper()
	found := h.Find(level, msg)
	if len(found) == 0 {
		t.Errorf("no %s log containing %q", level, msg)
		for _, r := range h.Records() {
			t.Logf("  [%s] %s %v", r.Level, r.Message, r.Attrs)
		}
		return Record{}
	}
	return found[0]
}

// AssertNoErrors fails if any error-level record was captured
func AssertNoErrors(t *testing.T, h *LogHandler) {
	t.Helper()
	for _, r := range h.Records() {
		if r.Level >= slog.LevelError {
			t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
		}
	}
}
