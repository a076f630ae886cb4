package commands

import (
	"errors"
	"fmt"
)

// Process exit codes
const (
	ExitOK               = 0
	ExitBadOption        = 1
	ExitFileNotFound     = 2
	ExitGenerationFailed = 3
	ExitPermissionDenied = 157
)

// ErrConflict marks mutually exclusive or out-of-range options
var ErrConflict = errors.New("conflicting options")

// ExitError carries the process exit code for an error
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitErrorf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit code.
// Errors without an explicit code, such as flag parsing errors, map to
// ExitBadOption.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitBadOption
}
