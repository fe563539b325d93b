// Package runlock keeps two openpublish processes from publishing out of the
// same lock directory at once.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"openpublish/internal/services"
)

// FileName is the lock file created inside the lock directory.
const FileName = "openpublish.lock"

// Lock is a held run lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the run lock in dir without blocking. It returns
// services.ErrAlreadyRunning when another process holds it.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrAlreadyRunning, "runlock", "acquire", "another openpublish run holds "+path, nil)
	}
	return &Lock{path: path, lock: lock}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. Releasing twice is harmless.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
