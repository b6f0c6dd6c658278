// errors.go defines the error taxonomy for portscout.
//
// Three distinct failure conditions exist, and callers must be able to tell
// them apart:
//
//   - ValidationError: the caller supplied a bad port or range. Reported
//     before any runtime interaction is attempted.
//   - RuntimeUnavailableError: the container daemon could not be reached.
//   - ExhaustedError: random port generation spent its attempt budget
//     without finding a free port. Distinct from RuntimeUnavailableError so
//     callers can tell "no free port found" apart from "couldn't even ask".
//
// Malformed per-binding data (unparseable host ports) is NOT an error — the
// inventory builder tolerates it by omission, so one bad container never
// blocks the whole inventory.
package model

import "fmt"

// ValidationError reports caller-supplied input that fails the port or range
// preconditions. The HTTP layer maps it to a client-error status; the CLI
// maps it to ExitInvalidPort.
type ValidationError struct {
	// Field names the offending input ("port", "range", "attempts").
	Field string

	// Reason is the human-readable explanation.
	Reason string
}

// Error satisfies the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RuntimeUnavailableError reports that the container daemon could not be
// reached or did not respond. Op names the runtime call that failed.
type RuntimeUnavailableError struct {
	Op  string
	Err error
}

// Error satisfies the error interface.
func (e *RuntimeUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("container runtime unavailable: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("container runtime unavailable: %s", e.Op)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *RuntimeUnavailableError) Unwrap() error {
	return e.Err
}

// ExhaustedError reports that random port generation used its whole attempt
// budget without drawing a free port in [Low, High].
type ExhaustedError struct {
	Low      int
	High     int
	Attempts int
}

// Error satisfies the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no free port found in range %d-%d after %d attempts",
		e.Low, e.High, e.Attempts)
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitInvalidPort indicates a caller-supplied port or range failed
	// validation.
	ExitInvalidPort ExitCode = 4

	// ExitNoFreePort indicates random generation exhausted its attempt
	// budget without finding a free port.
	ExitNoFreePort ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
