package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"openpublish/internal/logging"
)

func TestTeeLoggerWithoutTargetsDiscards(t *testing.T) {
	logger := logging.TeeLogger(nil, nil, nil)
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("expected a logger with no targets to be disabled")
	}
	logger.Error("dropped")
}

func TestTeeLoggerRespectsEachTargetLevel(t *testing.T) {
	var info, warn bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger := logging.TeeLogger(base, slog.NewJSONHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("debug should be disabled for both targets")
	}
	logger.Info("collected instance")
	logger.Warn("namespace missing")

	if got := strings.Count(info.String(), "\n"); got != 2 {
		t.Fatalf("info target expected 2 lines, got %d: %s", got, info.String())
	}
	if strings.Contains(warn.String(), "collected instance") || !strings.Contains(warn.String(), "namespace missing") {
		t.Fatalf("warn target should only hold the warning, got %s", warn.String())
	}
}

func TestTeeLoggerCarriesAttrsToEveryTarget(t *testing.T) {
	first := logging.NewRecordHandler(nil)
	second := logging.NewRecordHandler(nil)
	logger := logging.TeeLogger(slog.New(first), second).
		With(logging.String(logging.FieldPlugin, "ExtractModel")).
		WithGroup("output")

	logger.Info("wrote file", slog.String("path", "hero_model.abc"))

	for name, capture := range map[string]*logging.RecordHandler{"first": first, "second": second} {
		records := capture.Records()
		if len(records) != 1 {
			t.Fatalf("%s: expected one record, got %d", name, len(records))
		}
		attrs := records[0].Attrs
		if attrs[logging.FieldPlugin] != "ExtractModel" || attrs["output.path"] != "hero_model.abc" {
			t.Fatalf("%s: unexpected attrs %v", name, attrs)
		}
	}
}
