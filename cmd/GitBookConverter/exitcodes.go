package main

import (
	"errors"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

// Exit codes:
// 0 = Success
// 1 = User error (bad arguments, unreadable archive, invalid encoding)
// 2 = System error (I/O failure, unreachable server)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewUserErrorWithCause creates a user error wrapping an underlying cause.
// Use for: input files that cannot be read.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message, Cause: cause}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// classifyError turns a conversion error into an ExitError. Bad input is a
// user error, anything else a system error.
func classifyError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var archiveErr *gitbookconverter.ArchiveError
	var encodingErr *gitbookconverter.EncodingError
	if errors.As(err, &archiveErr) || errors.As(err, &encodingErr) {
		return NewUserErrorWithCause(err.Error(), err)
	}
	return NewSystemErrorWithCause(err.Error(), err)
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
