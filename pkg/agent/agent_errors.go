// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"github.com/zainaedelson/quartet/pkg/errors"
)

// WrapLLMError wraps an inference backend error with appropriate context.
func WrapLLMError(err error, model string) *errors.PipelineError {
	if err == nil {
		return nil
	}
	return errors.New(errors.CodeLLMError, "LLM call failed", err).
		WithContext("model", model).
		WithAttribute("llm.model", model).
		WithRecoverable(true)
}

// WrapToolError wraps a capability invocation error with appropriate context.
func WrapToolError(err error, toolName, toolCallID string) *errors.PipelineError {
	if err == nil {
		return nil
	}
	return errors.New(errors.CodeToolFailure, "tool execution failed", err).
		WithContext("tool_name", toolName).
		WithContext("tool_call_id", toolCallID).
		WithAttribute("tool.name", toolName).
		WithRecoverable(true)
}

// NewIterationLimitError reports a chat/tool loop that never produced a
// final answer. Classified with the inference errors because the backend,
// not the capability, failed to converge.
func NewIterationLimitError(role string, maxIterations int) *errors.PipelineError {
	return errors.New(errors.CodeLLMError, "agent exceeded max tool iterations", nil).
		WithContext("role", role).
		WithContext("max_iterations", maxIterations).
		WithRecoverable(false)
}

// NewInvalidInputError creates a new invalid input error.
func NewInvalidInputError(msg string) *errors.PipelineError {
	return errors.New(errors.CodeInvalidInput, msg, nil).
		WithRecoverable(false)
}
