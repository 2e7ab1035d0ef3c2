// Package errdefs defines the error kinds surfaced by the conversion pipeline.
// Callers test for a kind with errors.Is.
package errdefs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports a setting or derived size that cannot be used.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrDecode reports an input image that is missing or unreadable.
	ErrDecode = errors.New("decode error")
	// ErrWrite reports a destination that could not be written.
	ErrWrite = errors.New("write error")
)

// InvalidParameter returns an error wrapping ErrInvalidParameter.
func InvalidParameter(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// Decode wraps err as an ErrDecode for path.
func Decode(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
}

// Write wraps err as an ErrWrite for path.
func Write(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
}
