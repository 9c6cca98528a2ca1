package model

import (
	"errors"
	"fmt"
)

// ExitCode is the process exit status reported by the cli.
type ExitCode int

func (e ExitCode) String() string {
	return fmt.Sprintf("Exit code %d", e)
}

func (e ExitCode) Error() string {
	return e.String()
}

const (
	Unset ExitCode = -1
)
const (
	NoError ExitCode = iota
	UnknownError
	UserCanceled
	LookupFailed
)

// ExitError carries an exit code up to main while still letting deferred
// cleanup run.
type ExitError struct {
	Code ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code.String(), e.Err)
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewExitError constructs an ExitError with the provided code and cause.
func NewExitError(code ExitCode, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitCodeFromError extracts the exit code from err. Errors that are not an
// ExitError map to UnknownError.
func ExitCodeFromError(err error) (ExitCode, error) {
	if err == nil {
		return NoError, nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, exitErr.Err
	}
	return UnknownError, err
}
