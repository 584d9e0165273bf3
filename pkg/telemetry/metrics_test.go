// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"testing"

	"github.com/zainaedelson/quartet/pkg/errors"
)

func TestNewPipelineMetrics(t *testing.T) {
	pm, err := NewPipelineMetrics(context.Background())
	if err != nil {
		t.Fatalf("failed to create pipeline metrics: %v", err)
	}
	if pm == nil {
		t.Fatal("expected non-nil PipelineMetrics")
	}
}

func TestRecordRun(t *testing.T) {
	pm, _ := NewPipelineMetrics(context.Background())
	ctx := context.Background()

	pm.RecordRun(ctx, OutcomeOK)
	pm.RecordRun(ctx, OutcomeFallback)

	// Nil metrics should not panic
	var nilMetrics *PipelineMetrics
	nilMetrics.RecordRun(ctx, OutcomeOK)
}

func TestRecordFallback(t *testing.T) {
	pm, _ := NewPipelineMetrics(context.Background())
	ctx := context.Background()

	pm.RecordFallback(ctx, errors.CodeStageFailure)
	pm.RecordFallback(ctx, errors.CodeLLMError)

	var nilMetrics *PipelineMetrics
	nilMetrics.RecordFallback(ctx, errors.CodeStageFailure)
}

func TestRecordStageError(t *testing.T) {
	pm, _ := NewPipelineMetrics(context.Background())
	ctx := context.Background()

	// Record a PipelineError
	pe := errors.New(errors.CodeToolFailure, "tool failed", nil)
	pm.RecordStageError(ctx, "explorer", pe)

	// Record a generic error
	pm.RecordStageError(ctx, "synthesizer", errors.New(errors.CodeInternal, "generic error", nil))

	// Should not panic with nil error or metrics
	pm.RecordStageError(ctx, "refiner", nil)

	var nilMetrics *PipelineMetrics
	nilMetrics.RecordStageError(ctx, "polisher", pe)
}

func TestRecordLLMCall(t *testing.T) {
	pm, _ := NewPipelineMetrics(context.Background())
	ctx := context.Background()

	pm.RecordLLMCall(ctx, "claude-3-haiku-20240307", 420.5, 120, 80)
	pm.RecordLLMCall(ctx, "claude-3-haiku-20240307", 100.0, 0, 0)

	var nilMetrics *PipelineMetrics
	nilMetrics.RecordLLMCall(ctx, "model", 1.0, 1, 1)
}

func TestRecordToolCall(t *testing.T) {
	pm, _ := NewPipelineMetrics(context.Background())
	ctx := context.Background()

	pm.RecordToolCall(ctx, "web_search", 150.5, true)
	pm.RecordToolCall(ctx, "write_document", 2.0, false)

	var nilMetrics *PipelineMetrics
	nilMetrics.RecordToolCall(ctx, "web_search", 1.5, true)
}

func TestRecordHealthStatus(t *testing.T) {
	pm, _ := NewPipelineMetrics(context.Background())
	ctx := context.Background()

	// 0 = unhealthy, 1 = degraded, 2 = healthy
	pm.RecordHealthStatus(ctx, "provider", 2)
	pm.RecordHealthStatus(ctx, "search", 1)
	pm.RecordHealthStatus(ctx, "artifact", 0)

	var nilMetrics *PipelineMetrics
	nilMetrics.RecordHealthStatus(ctx, "provider", 2)
}

func TestConcurrentMetrics(t *testing.T) {
	pm, _ := NewPipelineMetrics(context.Background())
	ctx := context.Background()

	done := make(chan bool, 3)

	go func() {
		pe := errors.New(errors.CodeLLMError, "model overloaded", nil)
		for i := 0; i < 10; i++ {
			pm.RecordStageError(ctx, "explorer", pe)
			pm.RecordFallback(ctx, errors.CodeLLMError)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 10; i++ {
			pm.RecordLLMCall(ctx, "claude-3-haiku-20240307", float64(i)*10, i, i)
			pm.RecordToolCall(ctx, "web_search", float64(i), i%2 == 0)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 10; i++ {
			pm.RecordRun(ctx, OutcomeOK)
			pm.RecordHealthStatus(ctx, "provider", int64(i%3))
		}
		done <- true
	}()

	<-done
	<-done
	<-done
}
