// SPDX-License-Identifier: Apache-2.0

// Package errors provides typed error handling with rich context for the
// pipeline. Errors carry a classification code, structured context for logs,
// and string attributes for traces; they propagate internally and are caught
// once at the entry-point boundary.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode classifies pipeline errors for monitoring and recovery.
type ErrorCode string

const (
	// CodeInternal indicates an internal system error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates the input was invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeConfig indicates invalid or incomplete process configuration.
	CodeConfig ErrorCode = "CONFIG_ERROR"

	// CodeToolFailure indicates a capability invocation failed.
	CodeToolFailure ErrorCode = "TOOL_FAILURE"

	// CodeLLMError indicates an inference backend error.
	CodeLLMError ErrorCode = "LLM_ERROR"

	// CodeArtifact indicates the shared document could not be read or written.
	CodeArtifact ErrorCode = "ARTIFACT_ERROR"

	// CodeStageFailure wraps any fault that aborted a pipeline stage.
	CodeStageFailure ErrorCode = "STAGE_FAILURE"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound ErrorCode = "NOT_FOUND"
)

// PipelineError is a typed error with rich context for observability.
// It implements the error interface and can be unwrapped with errors.As().
type PipelineError struct {
	Code        ErrorCode
	Message     string
	Err         error
	Context     map[string]interface{}
	Attributes  map[string]string
	Recoverable bool
	StatusCode  int // For HTTP responses
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured logging.
func (e *PipelineError) MarshalJSON() ([]byte, error) {
	type Alias PipelineError
	return json.Marshal(&struct {
		Message     string `json:"message"`
		Code        string `json:"code"`
		Err         string `json:"error,omitempty"`
		Recoverable bool   `json:"recoverable"`
		*Alias
	}{
		Message:     e.Error(),
		Code:        string(e.Code),
		Err:         fmt.Sprintf("%v", e.Err),
		Recoverable: e.Recoverable,
		Alias:       (*Alias)(e),
	})
}

// New creates a new PipelineError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *PipelineError {
	return &PipelineError{
		Code:       code,
		Message:    msg,
		Err:        cause,
		Context:    make(map[string]interface{}),
		Attributes: make(map[string]string),
		StatusCode: codeToStatusCode(code),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithAttribute adds a string attribute for OTEL traces.
// Returns the error for method chaining.
func (e *PipelineError) WithAttribute(key, value string) *PipelineError {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[key] = value
	return e
}

// WithRecoverable sets whether the error can be recovered from.
// Returns the error for method chaining.
func (e *PipelineError) WithRecoverable(recoverable bool) *PipelineError {
	e.Recoverable = recoverable
	return e
}

// AsPipelineError attempts to convert an error to a PipelineError.
// Returns the error as PipelineError if it is one, or wraps it otherwise.
func AsPipelineError(err error) *PipelineError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*PipelineError); ok {
		return pe
	}
	// Wrap unknown error as internal
	return New(CodeInternal, "wrapped error", err)
}

// RecoverableString returns "true" or "false" as a string for observability.
func (e *PipelineError) RecoverableString() string {
	if e.Recoverable {
		return "true"
	}
	return "false"
}

// codeToStatusCode maps error codes to HTTP status codes.
func codeToStatusCode(code ErrorCode) int {
	switch code {
	case CodeNotFound:
		return 404
	case CodeInvalidInput:
		return 400
	case CodeTimeout:
		return 408
	default:
		return 500
	}
}
