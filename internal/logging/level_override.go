package logging

import (
	"context"
	"log/slog"
)

// minLevelHandler drops records below floor before they reach next. The
// wrapped handler still applies its own level, so an override can only make
// a plugin quieter or as verbose as the global setting allows.
type minLevelHandler struct {
	next  slog.Handler
	floor slog.Level
}

func (h minLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.floor && h.next.Enabled(ctx, level)
}

func (h minLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level < h.floor {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h minLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return minLevelHandler{next: h.next.WithAttrs(attrs), floor: h.floor}
}

func (h minLevelHandler) WithGroup(name string) slog.Handler {
	return minLevelHandler{next: h.next.WithGroup(name), floor: h.floor}
}

// ForPlugin applies the level configured for name in overrides, as read from
// [logging] plugin_overrides. Plugins without an entry keep logger unchanged.
// Applying a second override replaces the first rather than stacking.
func ForPlugin(logger *slog.Logger, name string, overrides map[string]string) *slog.Logger {
	raw, ok := overrides[name]
	if !ok {
		return logger
	}
	if logger == nil {
		return NewNop()
	}
	next := logger.Handler()
	if existing, ok := next.(minLevelHandler); ok {
		next = existing.next
	}
	return slog.New(minLevelHandler{next: next, floor: ParseLevel(raw)})
}
