package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Groups contains the order-group specification used to label and gate
// plugin orders. Empty strings select the built-in defaults.
type Groups struct {
	// OrderGroups is a comma separated list of `label`, `order=label` or
	// `<order=label` entries.
	OrderGroups string `toml:"order_groups"`
	// ValidationOrder overrides the order after which validate() halts.
	ValidationOrder string `toml:"validation_order"`
	// GroupRange is the width of one canonical plugin order band.
	GroupRange string `toml:"group_range"`
}

// Publish contains plugin discovery settings.
type Publish struct {
	Hosts       []string `toml:"hosts"`
	Targets     []string `toml:"targets"`
	PresetsPath string   `toml:"presets_path"`
	LockDir     string   `toml:"lock_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format          string            `toml:"format"`
	Level           string            `toml:"level"`
	Dir             string            `toml:"dir"`
	PluginOverrides map[string]string `toml:"plugin_overrides"`
}

// Config encapsulates all configuration values for openpublish.
//
// Configuration sections by subsystem:
//   - Groups: order-group labels and the validation boundary
//   - Publish: registered hosts, targets, plugin presets and the run lock
//   - Logging: log format, level, and per-plugin level overrides
type Config struct {
	Groups  Groups  `toml:"groups"`
	Publish Publish `toml:"publish"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/openpublish/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("openpublish.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a publish run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Publish.LockDir, c.Logging.Dir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// GroupSpec returns the raw order-group specification.
func (c *Config) GroupSpec() string {
	return c.Groups.OrderGroups
}

// ValidationOrderSpec returns the raw validation-order override.
func (c *Config) ValidationOrderSpec() string {
	return c.Groups.ValidationOrder
}

// GroupRangeSpec returns the raw group range.
func (c *Config) GroupRangeSpec() string {
	return c.Groups.GroupRange
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
