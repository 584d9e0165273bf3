// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package crew assembles the four writing personas into one pipeline and
// exposes the single entry point the serving layer calls. Every
// invocation builds fresh roles, briefs, and a fresh conversation
// session; the only state shared across runs is the document store.
package crew

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zainaedelson/quartet/pkg/agent"
	"github.com/zainaedelson/quartet/pkg/artifact"
	"github.com/zainaedelson/quartet/pkg/core"
	"github.com/zainaedelson/quartet/pkg/errors"
	"github.com/zainaedelson/quartet/pkg/llm"
	"github.com/zainaedelson/quartet/pkg/memory"
	"github.com/zainaedelson/quartet/pkg/pipeline"
	"github.com/zainaedelson/quartet/pkg/resilience"
	"github.com/zainaedelson/quartet/pkg/telemetry"
	"github.com/zainaedelson/quartet/pkg/tools"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Crew owns the four-stage writing pipeline. It is safe for concurrent
// use: runs never share state, and the document store serializes writers.
type Crew struct {
	provider      llm.Provider
	store         *artifact.Store
	conversation  memory.ConversationMemory
	executor      *pipeline.Executor
	emitter       core.EventEmitter
	metrics       *telemetry.PipelineMetrics
	tracer        trace.Tracer
	searchTool    core.Tool
	model         string
	temperature   float64
	maxTokens     int
	maxIterations int
}

// CrewOption configures a Crew instance.
type CrewOption func(*Crew) error

// NewCrew creates the pipeline owner. The provider serves all four roles;
// the store holds the shared document.
func NewCrew(provider llm.Provider, store *artifact.Store, opts ...CrewOption) (*Crew, error) {
	if provider == nil {
		return nil, fmt.Errorf("crew provider is required")
	}
	if store == nil {
		return nil, fmt.Errorf("crew document store is required")
	}

	c := &Crew{
		provider:      provider,
		store:         store,
		conversation:  memory.NewInMemoryConversation(),
		emitter:       core.NoopEventEmitter{},
		tracer:        otel.Tracer("quartet/crew"),
		maxIterations: agent.DefaultMaxIterations,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.executor = pipeline.NewExecutor(
		pipeline.WithEmitter(c.emitter),
		pipeline.WithMetrics(c.metrics),
	)
	return c, nil
}

// WithSearchTool attaches the explorer's search capability. Leave it off
// when no search credential exists; the explorer then runs degraded.
func WithSearchTool(tool core.Tool) CrewOption {
	return func(c *Crew) error {
		c.searchTool = tool
		return nil
	}
}

// WithModel selects the inference model for all roles.
func WithModel(model string) CrewOption {
	return func(c *Crew) error {
		c.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature for all roles.
func WithTemperature(temperature float64) CrewOption {
	return func(c *Crew) error {
		c.temperature = temperature
		return nil
	}
}

// WithMaxTokens caps the response length per inference call.
func WithMaxTokens(maxTokens int) CrewOption {
	return func(c *Crew) error {
		c.maxTokens = maxTokens
		return nil
	}
}

// WithMaxIterations bounds each role's chat/tool loop.
func WithMaxIterations(n int) CrewOption {
	return func(c *Crew) error {
		if n <= 0 {
			return fmt.Errorf("max iterations must be positive, got %d", n)
		}
		c.maxIterations = n
		return nil
	}
}

// WithConversation swaps the conversation store carrying turns between
// stages of a run.
func WithConversation(conversation memory.ConversationMemory) CrewOption {
	return func(c *Crew) error {
		if conversation != nil {
			c.conversation = conversation
		}
		return nil
	}
}

// WithEmitter attaches a semantic event emitter.
func WithEmitter(emitter core.EventEmitter) CrewOption {
	return func(c *Crew) error {
		if emitter != nil {
			c.emitter = emitter
		}
		return nil
	}
}

// WithMetrics attaches pipeline metrics. A nil recorder is safe.
func WithMetrics(metrics *telemetry.PipelineMetrics) CrewOption {
	return func(c *Crew) error {
		c.metrics = metrics
		return nil
	}
}

// Respond runs the full pipeline for one inbound message and always
// returns a usable string. A blank message runs against the default
// topic. On success the final stage's text comes back, with a saved-to
// marker when the shared document exists. On any failure the diagnostics
// are logged and the bare topic comes back instead; callers never see an
// error value.
func (c *Crew) Respond(ctx context.Context, message string) string {
	topic := strings.TrimSpace(message)
	if topic == "" {
		topic = DefaultTopic
	}

	ctx, runID := core.EnsureRunID(ctx)
	ctx, span := c.tracer.Start(ctx, "Crew.Respond",
		trace.WithAttributes(telemetry.RunAttributes(runID, topic)...),
	)
	defer span.End()

	log := slog.Default()
	log.InfoContext(ctx, "crew.respond.start",
		slog.String("run_id", runID),
		slog.String("topic", topic),
	)

	// The run's session exists only for the run.
	defer func() {
		if err := c.conversation.Clear(ctx, runID); err != nil {
			log.WarnContext(ctx, "crew.session.clear_error",
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
			)
		}
	}()

	result, err := resilience.WithFallback(ctx, func() (string, error) {
		return c.run(ctx, runID, topic)
	}, resilience.FallbackFunc[string](func(fctx context.Context, primaryErr error) (string, error) {
		c.noteFallback(fctx, log, runID, primaryErr)
		return topic, nil
	}))
	if err != nil || strings.TrimSpace(result) == "" {
		return topic
	}
	return result
}

// run executes the four stages and assembles the success result.
func (c *Crew) run(ctx context.Context, runID, topic string) (string, error) {
	stages, err := c.buildStages()
	if err != nil {
		return "", err
	}

	state, err := c.executor.Execute(ctx, stages, topic)
	if err != nil {
		return "", err
	}

	result := strings.TrimSpace(state.Last)

	saved := c.store.Exists()
	if saved {
		result += "\n\n[Saved to " + c.store.Name() + "]"
	}
	trace.SpanFromContext(ctx).SetAttributes(telemetry.ArtifactAttributes(c.store.Name(), saved)...)

	c.metrics.RecordRun(ctx, telemetry.OutcomeOK)
	slog.Default().InfoContext(ctx, "crew.respond.complete",
		slog.String("run_id", runID),
		slog.Bool("document_saved", saved),
		slog.Int("result_chars", len(result)),
	)
	return result, nil
}

// noteFallback records the structured diagnostics for a degraded run.
func (c *Crew) noteFallback(ctx context.Context, log *slog.Logger, runID string, primaryErr error) {
	pe := errors.AsPipelineError(primaryErr)
	stage := ""
	if v, ok := pe.Context["stage"]; ok {
		stage = fmt.Sprint(v)
	}

	log.ErrorContext(ctx, "crew.run.fallback",
		slog.String("run_id", runID),
		slog.String("stage", stage),
		slog.String("error_code", string(pe.Code)),
		slog.String("error", pe.Error()),
	)
	c.emitter.Emit(ctx, core.NewEvent(core.EventRunFallback, stage, "", map[string]any{
		"run_id": runID,
		"code":   string(pe.Code),
	}))
	c.metrics.RecordFallback(ctx, pe.Code)
	c.metrics.RecordRun(ctx, telemetry.OutcomeFallback)
}

// buildStages assembles fresh roles and agents in pipeline order. The
// explorer gets the search capability only when one was configured; the
// other three share the document writer.
func (c *Crew) buildStages() ([]pipeline.Stage, error) {
	var explorerTools []core.Tool
	if c.searchTool != nil {
		explorerTools = append(explorerTools, c.searchTool)
	}
	writer := tools.NewWriterTool(c.store)

	defs := []struct {
		role         *core.Role
		brief        func(string) *core.Assignment
		usesArtifact bool
	}{
		{NewExplorer(explorerTools...), ExplorerBrief, false},
		{NewSynthesizer(writer), SynthesizerBrief, true},
		{NewRefiner(writer), RefinerBrief, true},
		{NewPolisher(writer), PolisherBrief, true},
	}

	stages := make([]pipeline.Stage, 0, len(defs))
	for _, def := range defs {
		opts := []agent.Option{
			agent.WithConversation(c.conversation),
			agent.WithEmitter(c.emitter),
			agent.WithMetrics(c.metrics),
			agent.WithMaxIterations(c.maxIterations),
		}
		if c.model != "" {
			opts = append(opts, agent.WithModel(c.model))
		}
		if c.temperature != 0 {
			opts = append(opts, agent.WithTemperature(c.temperature))
		}
		if c.maxTokens != 0 {
			opts = append(opts, agent.WithMaxTokens(c.maxTokens))
		}

		ag, err := agent.New(def.role, c.provider, opts...)
		if err != nil {
			return nil, err
		}
		stages = append(stages, pipeline.Stage{
			Name:         def.role.Name,
			Brief:        def.brief,
			Run:          ag.Execute,
			UsesArtifact: def.usesArtifact,
		})
	}
	return stages, nil
}
