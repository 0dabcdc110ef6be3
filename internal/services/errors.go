package services

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	ErrNotFound      = errors.New("path not found")
	ErrPermission    = errors.New("permission denied")
	ErrIO            = errors.New("i/o failure")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an arbitrary error onto one of the sentinel errors. Filesystem
// errors from the standard library are folded into the matching sentinel so
// callers can classify without knowing which layer produced the failure.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, ErrPermission), errors.Is(err, fs.ErrPermission):
		return ErrPermission
	case errors.Is(err, ErrIO):
		return ErrIO
	case errors.Is(err, ErrConfiguration):
		return ErrConfiguration
	default:
		return ErrTransient
	}
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
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
