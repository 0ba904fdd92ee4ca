package errors

import (
	"errors"
	"fmt"
)

// Exit codes for wsshift
const (
	ExitSuccess            = 0
	ExitGeneralError       = 1
	ExitDisplayError       = 2
	ExitConfigError        = 3
	ExitKeybindError       = 4
	ExitHostError          = 5
	ExitUnsupportedSession = 6
)

// WsshiftError is the base error type for wsshift
type WsshiftError struct {
	Code    int
	Message string
	Cause   error
}

func (e *WsshiftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *WsshiftError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *WsshiftError) ExitCode() int {
	return e.Code
}

// New creates a new WsshiftError
func New(code int, message string) *WsshiftError {
	return &WsshiftError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a WsshiftError
func Wrap(code int, message string, cause error) *WsshiftError {
	return &WsshiftError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// DisplayError returns an error for a failed display server connection
func DisplayError(display string, cause error) *WsshiftError {
	if display == "" {
		display = "default display"
	}
	return Wrap(ExitDisplayError, fmt.Sprintf("cannot connect to %s", display), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *WsshiftError {
	return Wrap(ExitConfigError, message, cause)
}

// KeybindError returns an error for a hotkey that could not be grabbed
func KeybindError(binding string, cause error) *WsshiftError {
	return Wrap(ExitKeybindError, fmt.Sprintf("failed to bind %q", binding), cause)
}

// HostError returns an error for a failed window manager query
func HostError(op string, cause error) *WsshiftError {
	return Wrap(ExitHostError, fmt.Sprintf("host %s failed", op), cause)
}

// UnsupportedSession returns an error for sessions without EWMH window control
func UnsupportedSession(session string) *WsshiftError {
	return New(ExitUnsupportedSession, fmt.Sprintf("unsupported session type: %s", session))
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *WsshiftError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var wsErr *WsshiftError
	if errors.As(err, &wsErr) {
		return wsErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
