package main

import (
	"os"
	"path/filepath"
	"testing"

	"openpublish/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Order groups: 5")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestConfigValidateRejectsBadGroups(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Groups.OrderGroups = "zero=Collect"
	writeTestConfig(t, env.configPath, env.cfg)

	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected malformed order groups to fail validation")
	}
}

func TestConfigValidateReportsPresets(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHosts("nuke"))
	presets := "global:\n  filter:\n    IntegrateAsset:\n      active: false\n"
	if err := os.WriteFile(env.cfg.Publish.PresetsPath, []byte(presets), 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Plugin presets: 1")
	requireContains(t, out, "Hosts: nuke")

	if err := os.WriteFile(env.cfg.Publish.PresetsPath, []byte("filter: [unterminated"), 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, env.configPath); err == nil {
		t.Fatal("expected malformed presets to fail validation")
	}
}
