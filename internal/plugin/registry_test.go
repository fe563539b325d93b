package plugin_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"openpublish/internal/plugin"
)

func TestRegistryTargetsAndTest(t *testing.T) {
	reg := plugin.NewRegistry(nil)
	if !reflect.DeepEqual(reg.Targets(), []string{"default"}) {
		t.Fatalf("expected default target, got %v", reg.Targets())
	}
	reg.RegisterTarget("farm")
	reg.RegisterTarget("farm")
	if !reflect.DeepEqual(reg.Targets(), []string{"farm"}) {
		t.Fatalf("unexpected targets %v", reg.Targets())
	}
	if reg.Test()(plugin.TestState{NextOrder: 2, OrdersWithError: []float64{1}}) != "failed validation" {
		t.Fatal("expected default test")
	}
	reg.RegisterTest(func(plugin.TestState) string { return "never" })
	if reg.Test()(plugin.TestState{}) != "never" {
		t.Fatal("expected registered test")
	}
}

func TestRegistryDiscover(t *testing.T) {
	reg := plugin.NewRegistry(nil)
	reg.RegisterHost("nuke")

	collect := plugin.NewContextPlugin("CollectScene", 0, noopContext)
	resolveOnly := plugin.NewContextPlugin("CollectTimeline", 0, noopContext)
	resolveOnly.Hosts = []string{"resolve"}
	broken := plugin.NewContextPlugin("Broken", 1, nil)
	validate := plugin.NewInstancePlugin("ValidateNaming", 1, noopInstance)

	for _, p := range []*plugin.Plugin{validate, collect, resolveOnly, broken} {
		reg.Register(p)
	}
	replacement := plugin.NewInstancePlugin("ValidateNaming", 1.1, noopInstance)
	reg.Register(replacement)

	discovered, err := reg.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := names(discovered); !reflect.DeepEqual(got, []string{"ValidateNaming", "CollectScene"}) {
		t.Fatalf("unexpected discovery %v", got)
	}
	if discovered[0] == replacement || discovered[0].Order != 1.1 {
		t.Fatal("expected a clone of the replacement plugin")
	}

	if !reg.Deregister("CollectScene") || reg.Deregister("CollectScene") {
		t.Fatal("expected deregister to succeed exactly once")
	}
}

func TestRegistryDiscoverHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := plugin.NewRegistry(nil).Discover(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

const presetsYAML = `
global:
  filter:
    ValidateNaming:
      active: false
    ExtractReview:
      optional: true
      order: 2.2
nuke:
  filter:
    ValidateNaming: null
    ExtractReview:
      families: [review, render]
`

func TestPresetsForHosts(t *testing.T) {
	presets, err := plugin.ParsePresets([]byte(presetsYAML))
	if err != nil {
		t.Fatalf("ParsePresets: %v", err)
	}

	global := presets.ForHosts(nil)
	if preset, ok := global["ValidateNaming"]; !ok || preset.Active == nil || *preset.Active {
		t.Fatalf("expected global ValidateNaming preset, got %+v", global)
	}

	nuke := presets.ForHosts([]string{"nuke"})
	if _, ok := nuke["ValidateNaming"]; ok {
		t.Fatal("null host entry should remove the global preset")
	}
	review := nuke["ExtractReview"]
	if review.Order != nil || !reflect.DeepEqual(review.Families, []string{"review", "render"}) {
		t.Fatalf("host entry should replace the global one, got %+v", review)
	}
}

func TestRegistryAppliesPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	if err := os.WriteFile(path, []byte(presetsYAML), 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}
	presets, err := plugin.LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}

	reg := plugin.NewRegistry(nil)
	original := plugin.NewInstancePlugin("ExtractReview", 2, noopInstance)
	reg.Register(original)
	reg.Register(plugin.NewInstancePlugin("ValidateNaming", 1, noopInstance))
	reg.SetPresets(presets)

	discovered, err := reg.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if discovered[0].Order != 2.2 || !discovered[0].Optional {
		t.Fatalf("expected ExtractReview preset applied, got %+v", discovered[0])
	}
	if discovered[1].Active {
		t.Fatal("expected ValidateNaming deactivated")
	}
	if original.Order != 2 || original.Optional {
		t.Fatal("presets must not touch the registered descriptor")
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	presets, err := plugin.LoadPresets(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil || len(presets) != 0 {
		t.Fatalf("expected empty presets, got %v %v", presets, err)
	}
	if _, err := plugin.ParsePresets([]byte("global: [")); err == nil {
		t.Fatal("expected YAML error")
	}
}
