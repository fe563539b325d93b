package publish

import (
	"fmt"

	"openpublish/internal/services"
)

// UnexpectedError is an engine-level failure while processing a pair: the
// processor returned an error or panicked instead of reporting a result.
// It ends the current run.
type UnexpectedError struct {
	Plugin   string
	Instance string
	Err      error
}

func (e *UnexpectedError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("unexpected error processing %s on %s: %v", e.Plugin, e.Instance, e.Err)
	}
	return fmt.Sprintf("unexpected error processing %s: %v", e.Plugin, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

func (e *UnexpectedError) Is(target error) bool { return target == services.ErrUnexpected }
