package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrPlugin         = errors.New("plugin error")
	ErrUnexpected     = errors.New("unexpected error")
	ErrCannotToggle   = errors.New("cannot toggle")
	ErrAlreadyRunning = errors.New("already running")
	ErrNotFound       = errors.New("not found")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUnexpected
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should end the current run rather than being
// recorded as a plugin result.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnexpected) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
