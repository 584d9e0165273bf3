// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zainaedelson/quartet/pkg/errors"
)

// Run outcomes recorded on the run counter.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

// PipelineMetrics tracks run outcomes, stage faults, and backend usage
// for production monitoring.
type PipelineMetrics struct {
	// runCounter tracks completed runs by outcome
	runCounter metric.Int64Counter

	// fallbackCounter tracks runs that degraded to the bare topic
	fallbackCounter metric.Int64Counter

	// stageErrorCounter tracks faults by stage and error code
	stageErrorCounter metric.Int64Counter

	// llmLatency tracks inference call duration in milliseconds
	llmLatency metric.Float64Histogram

	// llmTokens tracks token consumption by direction
	llmTokens metric.Int64Counter

	// toolLatency tracks capability call duration in milliseconds
	toolLatency metric.Float64Histogram

	// healthStatusGauge tracks component health (0=unhealthy, 1=degraded, 2=healthy)
	healthStatusGauge metric.Int64Gauge

	mu sync.RWMutex
}

// NewPipelineMetrics creates a new pipeline metrics tracker with OTEL meters.
func NewPipelineMetrics(ctx context.Context) (*PipelineMetrics, error) {
	meter := otel.Meter("quartet/pipeline")

	runCounter, err := meter.Int64Counter(
		"quartet.pipeline.runs",
		metric.WithDescription("Completed pipeline runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCounter, err := meter.Int64Counter(
		"quartet.pipeline.fallbacks",
		metric.WithDescription("Runs that fell back to returning the bare topic"),
	)
	if err != nil {
		return nil, err
	}

	stageErrorCounter, err := meter.Int64Counter(
		"quartet.stage.errors",
		metric.WithDescription("Stage faults by stage name and error code"),
	)
	if err != nil {
		return nil, err
	}

	llmLatency, err := meter.Float64Histogram(
		"quartet.llm.latency_ms",
		metric.WithDescription("Inference call duration in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	llmTokens, err := meter.Int64Counter(
		"quartet.llm.tokens",
		metric.WithDescription("Token consumption by direction"),
	)
	if err != nil {
		return nil, err
	}

	toolLatency, err := meter.Float64Histogram(
		"quartet.tool.latency_ms",
		metric.WithDescription("Capability call duration in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	healthStatusGauge, err := meter.Int64Gauge(
		"quartet.health.status",
		metric.WithDescription("Component health status (0=unhealthy, 1=degraded, 2=healthy)"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		runCounter:        runCounter,
		fallbackCounter:   fallbackCounter,
		stageErrorCounter: stageErrorCounter,
		llmLatency:        llmLatency,
		llmTokens:         llmTokens,
		toolLatency:       toolLatency,
		healthStatusGauge: healthStatusGauge,
	}, nil
}

// RecordRun increments the run counter with the given outcome.
func (pm *PipelineMetrics) RecordRun(ctx context.Context, outcome string) {
	if pm == nil {
		return
	}

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	pm.runCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
		),
	)
}

// RecordFallback increments the fallback counter for the given error code.
// Called when a run degrades to returning the bare topic.
func (pm *PipelineMetrics) RecordFallback(ctx context.Context, errorCode errors.ErrorCode) {
	if pm == nil {
		return
	}

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	pm.fallbackCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error.code", string(errorCode)),
		),
	)
}

// RecordStageError increments the stage error counter for the given stage.
func (pm *PipelineMetrics) RecordStageError(ctx context.Context, stage string, err error) {
	if pm == nil || err == nil {
		return
	}

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if pe, ok := err.(*errors.PipelineError); ok {
		pm.stageErrorCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("stage", stage),
				attribute.String("error.code", string(pe.Code)),
				attribute.String("recoverable", pe.RecoverableString()),
			),
		)
		return
	}

	pm.stageErrorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("error.code", "UNKNOWN"),
			attribute.String("recoverable", "unknown"),
		),
	)
}

// RecordLLMCall records inference latency and token usage for one call.
func (pm *PipelineMetrics) RecordLLMCall(ctx context.Context, model string, durationMs float64, inputTokens, outputTokens int) {
	if pm == nil {
		return
	}

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	modelAttr := metric.WithAttributes(attribute.String("model", model))
	pm.llmLatency.Record(ctx, durationMs, modelAttr)

	if inputTokens > 0 {
		pm.llmTokens.Add(ctx, int64(inputTokens),
			metric.WithAttributes(
				attribute.String("model", model),
				attribute.String("direction", "input"),
			),
		)
	}
	if outputTokens > 0 {
		pm.llmTokens.Add(ctx, int64(outputTokens),
			metric.WithAttributes(
				attribute.String("model", model),
				attribute.String("direction", "output"),
			),
		)
	}
}

// RecordToolCall records capability latency for one invocation.
func (pm *PipelineMetrics) RecordToolCall(ctx context.Context, tool string, durationMs float64, success bool) {
	if pm == nil {
		return
	}

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	pm.toolLatency.Record(ctx, durationMs,
		metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.Bool("success", success),
		),
	)
}

// RecordHealthStatus records the health status of a component (0=unhealthy, 1=degraded, 2=healthy).
func (pm *PipelineMetrics) RecordHealthStatus(ctx context.Context, component string, status int64) {
	if pm == nil {
		return
	}

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	pm.healthStatusGauge.Record(ctx, status,
		metric.WithAttributes(
			attribute.String("component", component),
		),
	)
}
