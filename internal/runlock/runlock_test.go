package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"openpublish/internal/runlock"
	"openpublish/internal/services"
)

func TestAcquireIsExclusive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")

	first, err := runlock.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if first.Path() != filepath.Join(dir, runlock.FileName) {
		t.Fatalf("unexpected lock path %q", first.Path())
	}

	if _, err := runlock.Acquire(dir); !errors.Is(err, services.ErrAlreadyRunning) {
		t.Fatalf("expected second acquire to fail with ErrAlreadyRunning, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	second, err := runlock.Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	defer second.Release()
}
