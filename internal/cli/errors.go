// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for the cortex commands.
//
// Handlers always return errors; Run's caller displays them once and picks
// the exit code from the error's category.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/auth"
	"github.com/jeranaias/cortex-tui/internal/composer"
	"github.com/jeranaias/cortex-tui/internal/config"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates authentication failure or a missing session
	ExitAuthError = 4
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates no reply arrived in time
	ExitTimeoutError = 8
)

// ErrNoReply is returned when the wait for an answer ends without one.
var ErrNoReply = errors.New("no reply from Cortex yet; check again later with 'cortex history'")

// ErrNotLoggedIn is returned by commands that need a session when none is stored.
var ErrNotLoggedIn = errors.New("not logged in; run 'cortex login' first")

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "ask", "docs")
	Action  string // Action being performed (e.g., "upload", "rm")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string // Type of resource (e.g., "conversation", "document")
	ID       string // Identifier that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err in a consistent format. In JSON mode the error is
// a JSONResponse on w; otherwise a styled line.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}

	if jsonMode {
		resp := NewJSONErrorResponse(command, err)
		resp.ErrorType = errorType(err)
		resp.Print(w)
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), Describe(err))
}

// Describe turns err into the sentence shown to the user. Backend and form
// errors get the same wording the TUI uses.
func Describe(err error) string {
	var cmdErr *CommandError
	var verr *auth.ValidationError
	var apiErr *api.Error
	switch {
	case errors.As(err, &cmdErr) && cmdErr.Reason != "":
		return cmdErr.Reason
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, api.ErrUnauthorized):
		return "Your session has expired or you are not logged in. Run 'cortex login'."
	case errors.Is(err, api.ErrTransport):
		return "Cortex is unreachable: " + err.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}

func errorType(err error) string {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var commandErr *CommandError
	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found_error"
	case errors.As(err, &commandErr):
		return "command_error"
	default:
		return "generic_error"
	}
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	var formErr *auth.ValidationError
	var notPDF *composer.NotPDFError
	var notFoundErr *NotFoundError
	var configErr config.ValidationError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &formErr), errors.As(err, &notPDF),
		errors.Is(err, composer.ErrEmptyQuestion), errors.Is(err, composer.ErrNoFiles):
		return ExitUsageError
	case errors.As(err, &configErr), errors.Is(err, config.ErrMissingBaseURL):
		return ExitConfigError
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, ErrNotLoggedIn):
		return ExitAuthError
	case errors.Is(err, api.ErrTransport):
		return ExitNetworkError
	case errors.As(err, &notFoundErr), errors.Is(err, api.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, ErrNoReply), errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	default:
		return ExitGeneralError
	}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// errorJSON is used when encoding a JSONResponse fails.
func errorJSON(err error) string {
	b, _ := json.Marshal(map[string]interface{}{"success": false, "error": err.Error()})
	return string(b)
}
