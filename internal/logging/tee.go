package logging

import (
	"context"
	"log/slog"
	"slices"
)

// teeHandler forwards each record to every target that accepts its level.
type teeHandler []slog.Handler

func newTeeHandler(targets ...slog.Handler) slog.Handler {
	targets = slices.DeleteFunc(slices.Clone(targets), func(h slog.Handler) bool { return h == nil })
	switch len(targets) {
	case 0:
		return NoopHandler{}
	case 1:
		return targets[0]
	}
	return teeHandler(targets)
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(t, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	last := len(t) - 1
	for i, target := range t {
		if !target.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if i < last {
			rec = record.Clone()
		}
		if err := target.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t teeHandler) derive(fn func(slog.Handler) slog.Handler) teeHandler {
	next := make(teeHandler, len(t))
	for i, target := range t {
		next[i] = fn(target)
	}
	return next
}

// TeeLogger returns a logger writing to base's handler and to every capture.
// The processor uses it to keep a plugin's output in the run log while also
// attaching it to the plugin's result.
func TeeLogger(base *slog.Logger, captures ...slog.Handler) *slog.Logger {
	if base == nil {
		return slog.New(newTeeHandler(captures...))
	}
	return slog.New(newTeeHandler(append([]slog.Handler{base.Handler()}, captures...)...))
}
