package services_test

import (
	"errors"
	"strings"
	"testing"

	"openpublish/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrConfiguration, "ordergroups", "parse", "bad order", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"ordergroups", "parse", "bad order"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrUnexpected) {
		t.Fatalf("expected unexpected marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	if services.IsFatal(nil) {
		t.Fatal("nil must not be fatal")
	}
	if !services.IsFatal(services.Wrap(services.ErrUnexpected, "publish", "process", "", nil)) {
		t.Fatal("expected unexpected errors to be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrPlugin, "ValidateMesh", "process", "", nil)) {
		t.Fatal("plugin errors must not be fatal")
	}
}
