// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
)

const (
	// ExitFailure is the exit code of a failed run.
	ExitFailure = 1
	// ExitUsage is the exit code of a command line without a recipe.
	ExitUsage = 2
)

// ErrUsage is the sentinel error wrapped by UsageError.
var ErrUsage = errors.New("usage error")

type (
	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	ExitError struct {
		Code int
		Err  error
	}

	// UsageError is returned when a required argument is missing.
	// It wraps ErrUsage for errors.Is() compatibility.
	UsageError struct {
		Missing string
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("missing required argument <%s>", e.Missing)
}

// Unwrap returns ErrUsage for errors.Is() compatibility.
func (e *UsageError) Unwrap() error {
	return ErrUsage
}

// exitCode returns the process exit code for err.
func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
