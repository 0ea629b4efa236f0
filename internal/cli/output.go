package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failed, deposit rejected by vault limits
	ExitCommandError = 2 // Bad input, missing vault or deposit, database unusable
)

// Error codes carried in CLIError.Code.
const (
	ErrCodeGeneric       = "E001"
	ErrCodeConfig        = "E002"
	ErrCodeDatabase      = "E003"
	ErrCodeBadInput      = "E004"
	ErrCodeNotFound      = "E005"
	ErrCodeInvalidParams = "E101"
	ErrCodeDepositLimit  = "E102"
	ErrCodeScenario      = "E201"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int // ExitFailure or ExitCommandError
	Message string
	Err     error // optional
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope for every command's output.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Render writes data as a JSON envelope, or calls text to print it for
// humans.
func (f *OutputFormatter) Render(data interface{}, text func(w io.Writer)) error {
	if f.Format == "json" {
		return f.Success(data)
	}
	text(f.Writer)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail writes the error and returns the matching ExitError.
func (f *OutputFormatter) Fail(exitCode int, code, message string, details interface{}) error {
	_ = f.Error(code, message, details)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}

// VerboseLog outputs a message only if verbose mode is enabled.
// JSON output stays clean because verbose lines go to ErrWriter.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
