// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent binds one role to the inference backend and runs an
// assignment to completion, invoking the role's capabilities as the
// backend requests them.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zainaedelson/quartet/pkg/core"
	"github.com/zainaedelson/quartet/pkg/errors"
	"github.com/zainaedelson/quartet/pkg/llm"
	"github.com/zainaedelson/quartet/pkg/memory"
	"github.com/zainaedelson/quartet/pkg/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxIterations bounds the chat/tool loop for a single assignment.
const DefaultMaxIterations = 8

// Agent executes assignments for a single role. It owns the conversation
// with the inference backend: the system prompt derived from the persona,
// the prior turns of the run's session, and the tool-call exchange.
type Agent struct {
	role          *core.Role
	provider      llm.Provider
	conversation  memory.ConversationMemory
	emitter       core.EventEmitter
	metrics       *telemetry.PipelineMetrics
	tracer        trace.Tracer
	model         string
	temperature   float64
	maxTokens     int
	maxIterations int
}

// Option configures an Agent instance.
type Option func(*Agent) error

// New creates an agent for a role backed by the given provider.
func New(role *core.Role, provider llm.Provider, opts ...Option) (*Agent, error) {
	if role == nil {
		return nil, fmt.Errorf("agent role is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("agent provider is required")
	}

	a := &Agent{
		role:          role,
		provider:      provider,
		emitter:       core.NoopEventEmitter{},
		tracer:        otel.Tracer("quartet/agent"),
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// WithModel selects the inference model. Empty means the provider default.
func WithModel(model string) Option {
	return func(a *Agent) error {
		a.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(a *Agent) error {
		a.temperature = temperature
		return nil
	}
}

// WithMaxTokens caps the response length per inference call.
func WithMaxTokens(maxTokens int) Option {
	return func(a *Agent) error {
		a.maxTokens = maxTokens
		return nil
	}
}

// WithMaxIterations bounds the chat/tool loop.
func WithMaxIterations(n int) Option {
	return func(a *Agent) error {
		if n <= 0 {
			return fmt.Errorf("max iterations must be positive, got %d", n)
		}
		a.maxIterations = n
		return nil
	}
}

// WithConversation attaches the run's conversation memory so later stages
// see this agent's exchange.
func WithConversation(conversation memory.ConversationMemory) Option {
	return func(a *Agent) error {
		a.conversation = conversation
		return nil
	}
}

// WithEmitter attaches a semantic event emitter.
func WithEmitter(emitter core.EventEmitter) Option {
	return func(a *Agent) error {
		if emitter != nil {
			a.emitter = emitter
		}
		return nil
	}
}

// WithMetrics attaches pipeline metrics. A nil recorder is safe.
func WithMetrics(metrics *telemetry.PipelineMetrics) Option {
	return func(a *Agent) error {
		a.metrics = metrics
		return nil
	}
}

// Role returns the role this agent executes for.
func (a *Agent) Role() *core.Role { return a.role }

// Execute runs one assignment to completion and returns the role's final
// answer. The chat/tool loop is bounded by the configured max iterations;
// exhausting it is an inference-class failure. Assignment status
// transitions belong to the caller.
func (a *Agent) Execute(ctx context.Context, assignment *core.Assignment) (string, error) {
	ctx, runID := core.EnsureRunID(ctx)
	ctx, span := a.tracer.Start(ctx, "Agent.Execute")
	defer span.End()

	span.SetAttributes(telemetry.RoleAttributes(a.role.Name, a.model, runID, 0, a.maxIterations)...)
	span.SetAttributes(telemetry.AssignmentAttributes(assignment.ID, assignment.Directive, string(assignment.Status))...)

	log := slog.Default()
	log.InfoContext(ctx, "agent.execute.start",
		slog.String("role", a.role.Name),
		slog.String("assignment_id", assignment.ID),
		slog.String("run_id", runID),
	)

	messages := a.buildMessages(ctx, log, runID, assignment)
	// Everything between the system prompt and the directive is carried
	// session history.
	span.SetAttributes(telemetry.SessionAttributes(runID, a.conversation != nil, len(messages)-2)...)
	defs := a.toolDefinitions()

	for iteration := 0; iteration < a.maxIterations; iteration++ {
		a.emitter.Emit(ctx, core.NewEvent(core.EventRoleThinking, a.role.Name, assignment.ID, map[string]any{
			"run_id":    runID,
			"iteration": iteration,
		}))

		resp, err := a.chat(ctx, messages, defs)
		if err != nil {
			ke := WrapLLMError(err, a.model)
			log.ErrorContext(ctx, "agent.llm.error",
				slog.String("role", a.role.Name),
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
				slog.String("error_code", string(errors.CodeLLMError)),
			)
			return "", ke
		}

		if len(resp.ToolCalls) == 0 {
			output := strings.TrimSpace(resp.Content)
			a.storeTurns(ctx, log, runID, assignment.Directive, output)
			log.InfoContext(ctx, "agent.execute.complete",
				slog.String("role", a.role.Name),
				slog.String("assignment_id", assignment.ID),
				slog.String("run_id", runID),
				slog.Int("iterations", iteration+1),
			)
			return output, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			result, err := a.callTool(ctx, log, runID, assignment.ID, tc)
			if err != nil {
				return "", err
			}
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    fmt.Sprint(result),
				ToolCallID: tc.ID,
			})
		}
	}

	ke := NewIterationLimitError(a.role.Name, a.maxIterations)
	log.ErrorContext(ctx, "agent.execute.iterations_exhausted",
		slog.String("role", a.role.Name),
		slog.String("assignment_id", assignment.ID),
		slog.String("run_id", runID),
		slog.Int("max_iterations", a.maxIterations),
	)
	return "", ke
}

// buildMessages assembles the system prompt, the run's prior turns, and
// the rendered directive. A failed history read degrades to an empty
// history rather than aborting the stage.
func (a *Agent) buildMessages(ctx context.Context, log *slog.Logger, runID string, assignment *core.Assignment) []llm.Message {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt(a.role)},
	}

	if a.conversation != nil {
		history, err := a.conversation.GetMessages(ctx, runID)
		if err != nil {
			log.WarnContext(ctx, "agent.conversation.load_error",
				slog.String("role", a.role.Name),
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
			)
		}
		for _, msg := range history {
			messages = append(messages, llm.Message{
				Role:    llm.Role(msg.Role),
				Content: msg.Content,
			})
		}
	}

	content := assignment.Directive
	if assignment.Expected != "" {
		content += "\n\nExpected output: " + assignment.Expected
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: content})
	return messages
}

func systemPrompt(role *core.Role) string {
	return fmt.Sprintf("You are %s. %s\n\nYour objective: %s", role.Name, role.Backstory, role.Objective)
}

// toolDefiner is implemented by capabilities that can describe themselves
// to the inference backend.
type toolDefiner interface {
	Definition() llm.Tool
}

func (a *Agent) toolDefinitions() []llm.Tool {
	defs := make([]llm.Tool, 0, len(a.role.Tools))
	for _, tool := range a.role.Tools {
		if d, ok := tool.(toolDefiner); ok {
			defs = append(defs, d.Definition())
		}
	}
	return defs
}

func (a *Agent) chat(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.ChatResponse, error) {
	start := time.Now()
	llmCtx, llmSpan := a.tracer.Start(ctx, "Agent.LLM.Chat")
	llmSpan.SetAttributes(telemetry.LLMAttributes(a.model, "", len(messages), 0)...)

	resp, err := a.provider.Chat(llmCtx, llm.ChatRequest{
		Model:       a.model,
		Messages:    messages,
		Tools:       tools,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	durationMs := time.Since(start).Seconds() * 1000

	if resp != nil {
		llmSpan.SetAttributes(telemetry.LLMAttributes(a.model, "", len(messages), len(resp.ToolCalls))...)
		llmSpan.SetAttributes(telemetry.LLMUsageAttributes(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, durationMs)...)
		a.metrics.RecordLLMCall(ctx, a.model, durationMs, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	} else {
		a.metrics.RecordLLMCall(ctx, a.model, durationMs, 0, 0)
	}
	llmSpan.End()

	return resp, err
}

func (a *Agent) callTool(ctx context.Context, log *slog.Logger, runID, assignmentID string, tc llm.ToolCall) (any, error) {
	name := tc.Function.Name
	tool, ok := a.role.Tool(name)
	if !ok {
		ke := WrapToolError(fmt.Errorf("tool %q not available to role %s", name, a.role.Name), name, tc.ID)
		log.ErrorContext(ctx, "agent.tool.unknown",
			slog.String("role", a.role.Name),
			slog.String("run_id", runID),
			slog.String("tool", name),
		)
		return nil, ke
	}

	args := parseToolArguments(tc.Function.Arguments)

	a.emitter.Emit(ctx, core.NewEvent(core.EventToolInvoked, a.role.Name, assignmentID, map[string]any{
		"run_id": runID,
		"tool":   name,
	}))

	start := time.Now()
	toolCtx, toolSpan := a.tracer.Start(ctx, "Agent.Tool.Call")
	result, err := tool.Call(toolCtx, args)
	durationMs := time.Since(start).Seconds() * 1000
	toolSpan.SetAttributes(telemetry.ToolCallAttributes(name, tc.ID, durationMs, err == nil)...)
	toolSpan.SetAttributes(telemetry.ToolCallArgsResult(tc.Function.Arguments, fmt.Sprint(result), 500)...)
	toolSpan.End()

	a.metrics.RecordToolCall(ctx, name, durationMs, err == nil)

	if err != nil {
		ke := WrapToolError(err, name, tc.ID)
		log.ErrorContext(ctx, "agent.tool.error",
			slog.String("role", a.role.Name),
			slog.String("run_id", runID),
			slog.String("tool", name),
			slog.String("tool_call_id", tc.ID),
			slog.String("error", err.Error()),
			slog.String("error_code", string(errors.CodeToolFailure)),
		)
		return nil, ke
	}

	log.InfoContext(ctx, "agent.tool.complete",
		slog.String("role", a.role.Name),
		slog.String("run_id", runID),
		slog.String("tool", name),
		slog.String("tool_call_id", tc.ID),
	)
	return result, nil
}

// parseToolArguments decodes the backend's JSON argument payload. A payload
// that does not decode is passed through as a raw string so the tool can
// decide what to make of it.
func parseToolArguments(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]interface{}{}
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return trimmed
	}
	return args
}

// storeTurns records the directive and final answer in the run's session.
// Storage failures degrade silently to a log line; the answer is already
// in hand.
func (a *Agent) storeTurns(ctx context.Context, log *slog.Logger, runID, directive, output string) {
	if a.conversation == nil {
		return
	}
	for _, turn := range []struct {
		role    string
		content string
	}{
		{string(llm.RoleUser), directive},
		{string(llm.RoleAssistant), output},
	} {
		if err := a.conversation.AppendMessage(ctx, runID, memory.ConversationMessage{
			Role:    turn.role,
			Content: turn.content,
		}); err != nil {
			log.WarnContext(ctx, "agent.conversation.store_error",
				slog.String("role", a.role.Name),
				slog.String("run_id", runID),
				slog.String("error", err.Error()),
			)
		}
	}
}
