// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"log/slog"

	"github.com/zainaedelson/quartet/pkg/core"
	"github.com/zainaedelson/quartet/pkg/errors"
	"github.com/zainaedelson/quartet/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Executor runs stages strictly in order on one logical thread.
type Executor struct {
	emitter core.EventEmitter
	metrics *telemetry.PipelineMetrics
	tracer  trace.Tracer
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithEmitter attaches a semantic event emitter.
func WithEmitter(emitter core.EventEmitter) ExecutorOption {
	return func(e *Executor) {
		if emitter != nil {
			e.emitter = emitter
		}
	}
}

// WithMetrics attaches pipeline metrics. A nil recorder is safe.
func WithMetrics(metrics *telemetry.PipelineMetrics) ExecutorOption {
	return func(e *Executor) {
		e.metrics = metrics
	}
}

// NewExecutor creates a stage executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		emitter: core.NoopEventEmitter{},
		tracer:  otel.Tracer("quartet/pipeline"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the stages in order and returns the accumulated state.
// The first stage error aborts the run: the failing assignment is marked
// failed and the error comes back wrapped as a stage failure naming the
// stage. No partial state surfaces on failure.
func (e *Executor) Execute(ctx context.Context, stages []Stage, topic string) (*State, error) {
	if len(stages) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "pipeline has no stages", nil)
	}

	ctx, runID := core.EnsureRunID(ctx)
	state := NewState(topic)
	log := slog.Default()

	log.InfoContext(ctx, "pipeline.run.start",
		slog.String("run_id", runID),
		slog.String("topic", topic),
		slog.Int("stages", len(stages)),
	)

	for i, stage := range stages {
		if err := e.runStage(ctx, log, runID, stage, i, len(stages), state); err != nil {
			return nil, err
		}
	}

	log.InfoContext(ctx, "pipeline.run.complete",
		slog.String("run_id", runID),
		slog.Int("stages", len(stages)),
	)
	return state, nil
}

func (e *Executor) runStage(ctx context.Context, log *slog.Logger, runID string, stage Stage, index, count int, state *State) error {
	if stage.Brief == nil || stage.Run == nil {
		return errors.New(errors.CodeInternal, "stage is not executable", nil).
			WithContext("stage", stage.Name).
			WithContext("run_id", runID)
	}

	assignment := stage.Brief(state.Topic)
	assignment.Start()

	ctx, span := e.tracer.Start(ctx, "Pipeline.Stage",
		trace.WithAttributes(telemetry.StageAttributes(stage.Name, index, count)...),
	)
	defer span.End()
	span.SetAttributes(attribute.Bool("quartet.stage.uses_artifact", stage.UsesArtifact))

	e.emitter.Emit(ctx, core.NewEvent(core.EventStageStarted, stage.Name, assignment.ID, map[string]any{
		"run_id": runID,
		"index":  index,
	}))
	log.InfoContext(ctx, "pipeline.stage.start",
		slog.String("run_id", runID),
		slog.String("stage", stage.Name),
		slog.Int("index", index),
	)

	output, err := stage.Run(ctx, assignment)
	if err != nil {
		assignment.Fail(err.Error())
		e.metrics.RecordStageError(ctx, stage.Name, err)
		e.emitter.Emit(ctx, core.NewEvent(core.EventStageFailed, stage.Name, assignment.ID, map[string]any{
			"run_id": runID,
			"error":  err.Error(),
		}))

		wrapped := errors.New(errors.CodeStageFailure, "stage execution failed", err).
			WithContext("stage", stage.Name).
			WithContext("run_id", runID).
			WithAttribute("stage.name", stage.Name)
		span.RecordError(wrapped)

		log.ErrorContext(ctx, "pipeline.stage.failed",
			slog.String("run_id", runID),
			slog.String("stage", stage.Name),
			slog.String("error", err.Error()),
			slog.String("error_code", string(errors.CodeStageFailure)),
		)
		return wrapped
	}

	assignment.Complete(output)
	state.Record(stage.Name, output)

	e.emitter.Emit(ctx, core.NewEvent(core.EventStageCompleted, stage.Name, assignment.ID, map[string]any{
		"run_id": runID,
		"index":  index,
	}))
	log.InfoContext(ctx, "pipeline.stage.complete",
		slog.String("run_id", runID),
		slog.String("stage", stage.Name),
		slog.Int("index", index),
		slog.Int("output_chars", len(output)),
	)
	return nil
}
