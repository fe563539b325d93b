package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Record is a log line captured while a plugin ran.
type Record struct {
	Time    time.Time         `json:"time"`
	Level   slog.Level        `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

type recordStore struct {
	mu      sync.Mutex
	records []Record
}

// RecordHandler keeps every record it accepts in memory. Handlers derived via
// WithAttrs or WithGroup share the same store.
type RecordHandler struct {
	store  *recordStore
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewRecordHandler returns a capturing handler. A nil level accepts debug and above.
func NewRecordHandler(level slog.Leveler) *RecordHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &RecordHandler{store: &recordStore{}, level: level}
}

func (h *RecordHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *RecordHandler) Handle(_ context.Context, record slog.Record) error {
	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	captured := Record{Time: record.Time, Level: record.Level, Message: record.Message}
	if len(kvs) > 0 {
		captured.Attrs = make(map[string]string, len(kvs))
		for _, field := range kvs {
			captured.Attrs[field.key] = attrString(field.value)
		}
	}

	h.store.mu.Lock()
	h.store.records = append(h.store.records, captured)
	h.store.mu.Unlock()
	return nil
}

func (h *RecordHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *RecordHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// Records returns a copy of everything captured so far.
func (h *RecordHandler) Records() []Record {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return append([]Record(nil), h.store.records...)
}
