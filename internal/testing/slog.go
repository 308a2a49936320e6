package testing

import (
	"context"
	"log/slog"
	"sync"
)

// LogHandler is a slog.Handler that captures every record it is given, so
// that tests can assert on what was logged
type LogHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogHandler returns a new LogHandler that captures all levels
func NewLogHandler() *LogHandler {
	return &LogHandler{}
}

// NewLogger returns a Logger writing to a new LogHandler
func NewLogger() (*slog.Logger, *LogHandler) {
	h := NewLogHandler()
	return slog.New(h), h
}

func (h *LogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *LogHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

func (h *LogHandler) WithGroup(string) slog.Handler {
	return h
}

// Messages returns the messages of every captured record, in order
func (h *LogHandler) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	res := make([]string, len(h.records))
	for i, r := range h.records {
		res[i] = r.Message
	}
	return res
}

// Attrs returns the attributes of the first captured record with the
// provided message
func (h *LogHandler) Attrs(msg string) (map[string]any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		res := map[string]any{}
		r.Attrs(func(a slog.Attr) bool {
			res[a.Key] = a.Value.Any()
			return true
		})
		return res, true
	}
	return nil, false
}
