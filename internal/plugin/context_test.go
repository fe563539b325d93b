package plugin_test

import (
	"reflect"
	"testing"

	"openpublish/internal/plugin"
)

func TestNewContextRoot(t *testing.T) {
	pub := plugin.NewContext()
	root := pub.Root()
	if root.Name() != "context" || root.Family() != plugin.ContextFamily {
		t.Fatalf("unexpected root %q/%q", root.Name(), root.Family())
	}
	if !root.Publish() || root.Label() != "Context" {
		t.Fatalf("unexpected root data %v", root.Keys())
	}
	pub.Set(plugin.KeyComment, "first pass")
	if v, ok := pub.Data(plugin.KeyComment); !ok || v != "first pass" {
		t.Fatalf("expected comment, got %v", v)
	}
	if pub.Len() != 0 {
		t.Fatalf("expected no instances, got %d", pub.Len())
	}
}

func TestContextInstances(t *testing.T) {
	pub := plugin.NewContext()
	a := pub.CreateInstance("shotA", "render")
	b := pub.CreateInstance("shotB", "review")
	c := pub.CreateInstance("shotC", "render")

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique IDs, got %q %q", a.ID, b.ID)
	}
	if a.Context() != pub {
		t.Fatal("instance lost its context")
	}

	snapshot := pub.Instances()
	if !pub.Remove(b) || pub.Remove(b) {
		t.Fatal("expected remove to succeed exactly once")
	}
	if len(snapshot) != 3 {
		t.Fatalf("snapshot should not change after remove, got %d", len(snapshot))
	}
	got := pub.Instances()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("unexpected order after remove: %v", got)
	}

	if found, ok := pub.Lookup("shotC"); !ok || found != c {
		t.Fatalf("lookup by name failed")
	}
	if found, ok := pub.Lookup(a.ID); !ok || found != a {
		t.Fatalf("lookup by id failed")
	}
	if _, ok := pub.Lookup("missing"); ok {
		t.Fatal("expected lookup miss")
	}
}

func TestInstanceFamiliesAndPublish(t *testing.T) {
	inst := plugin.NewContext().CreateInstance("shot", "render")
	inst.AddFamily("review")
	inst.AddFamily("review")
	inst.AddFamily("render")

	if !reflect.DeepEqual(inst.Families(), []string{"review", "render"}) {
		t.Fatalf("unexpected families %v", inst.Families())
	}
	if !reflect.DeepEqual(inst.AllFamilies(), []string{"render", "review"}) {
		t.Fatalf("unexpected all families %v", inst.AllFamilies())
	}

	if !inst.Publish() {
		t.Fatal("expected publish by default")
	}
	inst.SetPublish(false)
	if inst.Publish() {
		t.Fatal("expected publish disabled")
	}
	inst.Set(plugin.KeyPublish, "yes")
	if !inst.Publish() {
		t.Fatal("only an explicit false disables publishing")
	}
	inst.Set(plugin.KeyLabel, "Shot 010")
	if inst.Label() != "Shot 010" {
		t.Fatalf("unexpected label %q", inst.Label())
	}
}
