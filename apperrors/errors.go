// Package apperrors defines the exit codes and error types shared by the
// command-line entry points.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Exit codes returned by the sysmon binary.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130 // interrupted by SIGINT
)

// ConfigError means the command line or environment could not be used.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// WrapError adds context to err, or returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports cancellation or deadline errors.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned by a run mode to a process exit status.
func ExitCode(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case IsContextError(err):
		return ExitErrorCanceled
	}
	return ExitErrorGeneric
}
