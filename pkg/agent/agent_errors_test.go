// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/zainaedelson/quartet/pkg/core"
	"github.com/zainaedelson/quartet/pkg/errors"
)

func TestWrapLLMError(t *testing.T) {
	if got := WrapLLMError(nil, "claude-3-haiku-20240307"); got != nil {
		t.Errorf("expected nil for nil error, got %v", got)
	}

	wrapped := WrapLLMError(fmt.Errorf("connection refused"), "claude-3-haiku-20240307")
	if wrapped.Code != errors.CodeLLMError {
		t.Errorf("expected LLM_ERROR, got %s", wrapped.Code)
	}
	if wrapped.Context["model"] != "claude-3-haiku-20240307" {
		t.Errorf("model missing from context: %v", wrapped.Context)
	}
	if wrapped.Attributes["llm.model"] != "claude-3-haiku-20240307" {
		t.Errorf("model missing from attributes: %v", wrapped.Attributes)
	}
	if !wrapped.Recoverable {
		t.Error("LLM errors should be recoverable")
	}
}

func TestWrapToolError(t *testing.T) {
	if got := WrapToolError(nil, "web_search", "call-1"); got != nil {
		t.Errorf("expected nil for nil error, got %v", got)
	}

	wrapped := WrapToolError(fmt.Errorf("search API returned status 401"), "web_search", "call-1")
	if wrapped.Code != errors.CodeToolFailure {
		t.Errorf("expected TOOL_FAILURE, got %s", wrapped.Code)
	}
	if wrapped.Context["tool_name"] != "web_search" {
		t.Errorf("tool name missing from context: %v", wrapped.Context)
	}
	if wrapped.Context["tool_call_id"] != "call-1" {
		t.Errorf("tool call ID missing from context: %v", wrapped.Context)
	}
	if !wrapped.Recoverable {
		t.Error("tool errors should be recoverable")
	}
}

func TestNewIterationLimitError(t *testing.T) {
	err := NewIterationLimitError("polisher", 8)
	if err.Code != errors.CodeLLMError {
		t.Errorf("expected LLM_ERROR, got %s", err.Code)
	}
	if err.Context["role"] != "polisher" {
		t.Errorf("role missing from context: %v", err.Context)
	}
	if err.Context["max_iterations"] != 8 {
		t.Errorf("limit missing from context: %v", err.Context)
	}
	if err.Recoverable {
		t.Error("iteration exhaustion is not recoverable")
	}
}

func TestNewInvalidInputError(t *testing.T) {
	err := NewInvalidInputError("assignment is nil")
	if err.Code != errors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Recoverable {
		t.Error("invalid input is not recoverable")
	}
}

func TestLLMHealthChecker(t *testing.T) {
	var calls int
	checker := NewLLMHealthChecker("anthropic", func(_ context.Context) error {
		calls++
		return nil
	})

	result := checker.Check(context.Background())
	if result.Status != core.HealthHealthy {
		t.Errorf("expected healthy, got %s", result.Status)
	}
	if result.Component != "llm:anthropic" {
		t.Errorf("unexpected component %q", result.Component)
	}

	// Second check inside the interval is served from cache.
	checker.Check(context.Background())
	if calls != 1 {
		t.Errorf("expected 1 probe, got %d", calls)
	}
}

func TestLLMHealthCheckerFailure(t *testing.T) {
	checker := NewLLMHealthChecker("ollama", func(_ context.Context) error {
		return fmt.Errorf("connection refused")
	})

	result := checker.Check(context.Background())
	if result.Status != core.HealthUnhealthy {
		t.Errorf("expected unhealthy, got %s", result.Status)
	}
	if result.Error == nil {
		t.Error("expected probe error to be recorded")
	}
}

func TestLLMHealthCheckerNoProbe(t *testing.T) {
	checker := NewLLMHealthChecker("mock", nil)

	result := checker.Check(context.Background())
	if result.Status != core.HealthHealthy {
		t.Errorf("expected healthy without a probe, got %s", result.Status)
	}
	if result.Message != "provider available (no health check configured)" {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestLLMHealthCheckerIntervalExpiry(t *testing.T) {
	var calls int
	checker := NewLLMHealthChecker("anthropic", func(_ context.Context) error {
		calls++
		return nil
	})
	checker.minInterval = 10 * time.Millisecond

	checker.Check(context.Background())
	time.Sleep(20 * time.Millisecond)
	checker.Check(context.Background())

	if calls != 2 {
		t.Errorf("expected probe to re-run after interval, got %d calls", calls)
	}
}
