package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"openpublish/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Publish.LockDir = filepath.Join(base, "lock")
	cfgVal.Publish.PresetsPath = filepath.Join(base, "presets.yaml")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGroups sets the order-group specification on the test config.
func WithGroups(spec string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Groups.OrderGroups = spec
	}
}

// WithHosts replaces the registered hosts.
func WithHosts(hosts ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Publish.Hosts = hosts
	}
}

// WithPresets writes a presets file into the temp directory and points the
// config at it.
func WithPresets(content string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.WriteFile(b.cfg.Publish.PresetsPath, []byte(content), 0o644); err != nil {
			b.t.Fatalf("write presets: %v", err)
		}
	}
}
