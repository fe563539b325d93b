package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"openpublish/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLock := filepath.Join(tempHome, ".local", "share", "openpublish")
	if cfg.Publish.LockDir != wantLock {
		t.Fatalf("unexpected lock dir: got %q want %q", cfg.Publish.LockDir, wantLock)
	}
	wantPresets := filepath.Join(tempHome, ".config", "openpublish", "presets.yaml")
	if cfg.Publish.PresetsPath != wantPresets {
		t.Fatalf("unexpected presets path: got %q want %q", cfg.Publish.PresetsPath, wantPresets)
	}
	if len(cfg.Publish.Targets) != 1 || cfg.Publish.Targets[0] != "default" {
		t.Fatalf("expected default target, got %v", cfg.Publish.Targets)
	}
	if cfg.Groups.GroupRange != "1" {
		t.Fatalf("expected default group range, got %q", cfg.Groups.GroupRange)
	}
	if cfg.GroupSpec() != "" || cfg.ValidationOrderSpec() != "" {
		t.Fatal("expected empty group overrides by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "openpublish.toml")
	custom := config.Default()
	custom.Groups.OrderGroups = "0=Collect,1=Validate,Other"
	custom.Groups.ValidationOrder = "<1.25"
	custom.Groups.GroupRange = "2"
	custom.Publish.Hosts = []string{"nuke", " nuke ", "resolve"}
	custom.Publish.Targets = []string{"farm"}
	custom.Publish.LockDir = "~/locks"
	custom.Logging.Format = "JSON"
	custom.Logging.PluginOverrides = map[string]string{"ValidateNaming": "debug"}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.GroupSpec() != "0=Collect,1=Validate,Other" {
		t.Fatalf("unexpected group spec %q", cfg.GroupSpec())
	}
	if cfg.ValidationOrderSpec() != "<1.25" || cfg.GroupRangeSpec() != "2" {
		t.Fatalf("unexpected group overrides: %+v", cfg.Groups)
	}
	if len(cfg.Publish.Hosts) != 2 || cfg.Publish.Hosts[0] != "nuke" || cfg.Publish.Hosts[1] != "resolve" {
		t.Fatalf("expected deduplicated hosts, got %v", cfg.Publish.Hosts)
	}
	if cfg.Publish.LockDir != filepath.Join(tempHome, "locks") {
		t.Fatalf("unexpected lock dir %q", cfg.Publish.LockDir)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENPUBLISH_TARGETS", "farm, local")
	t.Setenv("OPENPUBLISH_HOSTS", "nuke")
	t.Setenv("OPENPUBLISH_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if strings.Join(cfg.Publish.Targets, ",") != "farm,local" {
		t.Fatalf("unexpected targets %v", cfg.Publish.Targets)
	}
	if strings.Join(cfg.Publish.Hosts, ",") != "nuke" {
		t.Fatalf("unexpected hosts %v", cfg.Publish.Hosts)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadGroupRange(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "openpublish.toml")
	content := "[groups]\ngroup_range = \"wide\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for non-numeric group range")
	}
	if !strings.Contains(err.Error(), "groups.group_range") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownPluginOverrideLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.PluginOverrides = map[string]string{"CollectScene": "loud"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported override level")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(target); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Publish.LockDir = filepath.Join(base, "lock")
	cfg.Logging.Dir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Publish.LockDir, cfg.Logging.Dir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestLoadAppliesGroupEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENPUBLISH_ORDER_GROUPS", " 0=Collect,Other ")
	t.Setenv("OPENPUBLISH_GROUP_RANGE", "0.5")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GroupSpec() != "0=Collect,Other" {
		t.Fatalf("unexpected group spec %q", cfg.GroupSpec())
	}
	if cfg.GroupRangeSpec() != "0.5" {
		t.Fatalf("unexpected group range %q", cfg.GroupRangeSpec())
	}
}
