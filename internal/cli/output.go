package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Computation failure (solver divergence, unwritable output)
	ExitCommandError = 2 // Command error (bad flags, invalid parameters, unreadable config)
)

// Error codes used in structured output.
const (
	ErrCodeInvalidArgument   = "E_INVALID_ARGUMENT"
	ErrCodeNumericDivergence = "E_NUMERIC_DIVERGENCE"
	ErrCodeConfig            = "E_CONFIG"
	ErrCodeIO                = "E_IO"
	ErrCodeGeneric           = "E_GENERIC"
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code     int    // Exit code (use ExitFailure or ExitCommandError)
	Message  string // Error message
	Err      error  // Underlying error (optional)
	Reported bool   // Already written by an OutputFormatter
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
// Returns ExitFailure (1) if the error is not an ExitError.
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

// classify maps a computation error to an error code and exit code.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, numeric.ErrInvalidArgument):
		return ErrCodeInvalidArgument, ExitCommandError
	case errors.Is(err, numeric.ErrNumericDivergence):
		return ErrCodeNumericDivergence, ExitFailure
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// OutputFormatter writes command results as text, JSON or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the envelope used for json and yaml output.
type Response struct {
	Status string         `json:"status" yaml:"status"`
	Data   interface{}    `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty" yaml:"error,omitempty"`
}

// ResponseError is the error structure for json and yaml output.
type ResponseError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	case "yaml":
		return f.encodeYAML(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string) error {
	resp := Response{Status: "error", Error: &ResponseError{Code: code, Message: message}}
	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(resp)
	case "yaml":
		return f.encodeYAML(resp)
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(code string, exitCode int, err error) error {
	if werr := f.Error(code, err.Error()); werr != nil {
		return WrapExitError(ExitFailure, "write error output", werr)
	}
	return &ExitError{Code: exitCode, Message: code, Err: err, Reported: true}
}

// FailComputation classifies err and reports it.
func (f *OutputFormatter) FailComputation(err error) error {
	code, exit := classify(err)
	return f.Fail(code, exit, err)
}

func (f *OutputFormatter) encodeYAML(v interface{}) error {
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
