// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides OpenTelemetry integration with rich attributes
// for pipeline observability.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for pipeline telemetry.
// These follow OpenTelemetry naming conventions where applicable.
const (
	// Run attributes
	AttrRunID    = "quartet.run.id"
	AttrRunTopic = "quartet.run.topic"

	// Stage attributes
	AttrStageName  = "quartet.stage.name"
	AttrStageIndex = "quartet.stage.index"
	AttrStageCount = "quartet.stage.count"

	// Role attributes
	AttrRoleName      = "quartet.role.name"
	AttrRoleModel     = "quartet.role.model"
	AttrRoleIteration = "quartet.role.iteration"
	AttrRoleMaxIter   = "quartet.role.max_iterations"

	// Session/Conversation attributes
	AttrSessionID            = "quartet.session.id"
	AttrConversationEnabled  = "quartet.conversation.enabled"
	AttrConversationMsgCount = "quartet.conversation.message_count"

	// Tool attributes
	AttrToolName       = "quartet.tool.name"
	AttrToolCallID     = "quartet.tool.call_id"
	AttrToolArgs       = "quartet.tool.arguments"
	AttrToolResult     = "quartet.tool.result"
	AttrToolDurationMs = "quartet.tool.duration_ms"
	AttrToolSuccess    = "quartet.tool.success"

	// LLM attributes (extending standard gen_ai conventions)
	AttrLLMModel        = "gen_ai.request.model"
	AttrLLMProvider     = "gen_ai.system"
	AttrLLMMessages     = "gen_ai.request.messages"
	AttrLLMTokensInput  = "gen_ai.usage.input_tokens"
	AttrLLMTokensOutput = "gen_ai.usage.output_tokens"
	AttrLLMTokensTotal  = "gen_ai.usage.total_tokens"
	AttrLLMDurationMs   = "gen_ai.duration_ms"
	AttrLLMToolCalls    = "gen_ai.tool_calls"

	// Assignment attributes
	AttrAssignmentID     = "quartet.assignment.id"
	AttrAssignmentStatus = "quartet.assignment.status"
	AttrAssignmentBrief  = "quartet.assignment.brief"

	// Artifact attributes
	AttrArtifactName   = "quartet.artifact.name"
	AttrArtifactExists = "quartet.artifact.exists"
)

// RunAttributes returns common attributes for run-level spans.
func RunAttributes(runID, topic string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
	}
	if topic != "" {
		if len(topic) > 200 {
			topic = topic[:200] + "..."
		}
		attrs = append(attrs, attribute.String(AttrRunTopic, topic))
	}
	return attrs
}

// StageAttributes returns attributes for stage spans.
func StageAttributes(name string, index, count int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrStageName, name),
		attribute.Int(AttrStageIndex, index),
		attribute.Int(AttrStageCount, count),
	}
}

// RoleAttributes returns common attributes for role execution spans.
func RoleAttributes(role, model, runID string, iteration, maxIter int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRoleName, role),
		attribute.String(AttrRunID, runID),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrRoleModel, model))
	}
	if iteration > 0 {
		attrs = append(attrs, attribute.Int(AttrRoleIteration, iteration))
	}
	if maxIter > 0 {
		attrs = append(attrs, attribute.Int(AttrRoleMaxIter, maxIter))
	}
	return attrs
}

// SessionAttributes returns attributes for session/conversation tracking.
func SessionAttributes(sessionID string, enabled bool, msgCount int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Bool(AttrConversationEnabled, enabled),
	}
	if sessionID != "" {
		attrs = append(attrs, attribute.String(AttrSessionID, sessionID))
	}
	if enabled {
		attrs = append(attrs, attribute.Int(AttrConversationMsgCount, msgCount))
	}
	return attrs
}

// ToolCallAttributes returns attributes for a tool call span.
func ToolCallAttributes(name, callID string, durationMs float64, success bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrToolName, name),
		attribute.String(AttrToolCallID, callID),
		attribute.Float64(AttrToolDurationMs, durationMs),
		attribute.Bool(AttrToolSuccess, success),
	}
}

// ToolCallArgsResult returns attributes with tool arguments and result (truncated for safety).
func ToolCallArgsResult(args, result string, maxLen int) []attribute.KeyValue {
	if maxLen <= 0 {
		maxLen = 500
	}
	attrs := []attribute.KeyValue{}
	if args != "" {
		if len(args) > maxLen {
			args = args[:maxLen] + "..."
		}
		attrs = append(attrs, attribute.String(AttrToolArgs, args))
	}
	if result != "" {
		if len(result) > maxLen {
			result = result[:maxLen] + "..."
		}
		attrs = append(attrs, attribute.String(AttrToolResult, result))
	}
	return attrs
}

// LLMAttributes returns attributes for LLM call spans.
func LLMAttributes(model, provider string, msgCount int, toolCallCount int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrLLMModel, model),
		attribute.Int(AttrLLMMessages, msgCount),
	}
	if provider != "" {
		attrs = append(attrs, attribute.String(AttrLLMProvider, provider))
	}
	if toolCallCount > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMToolCalls, toolCallCount))
	}
	return attrs
}

// LLMUsageAttributes returns token usage attributes.
func LLMUsageAttributes(inputTokens, outputTokens int, durationMs float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if inputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensInput, inputTokens))
	}
	if outputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensOutput, outputTokens))
	}
	if inputTokens > 0 || outputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensTotal, inputTokens+outputTokens))
	}
	if durationMs > 0 {
		attrs = append(attrs, attribute.Float64(AttrLLMDurationMs, durationMs))
	}
	return attrs
}

// AssignmentAttributes returns attributes for assignment tracking.
func AssignmentAttributes(id, brief, status string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if id != "" {
		attrs = append(attrs, attribute.String(AttrAssignmentID, id))
	}
	if brief != "" {
		// Truncate long briefs
		if len(brief) > 200 {
			brief = brief[:200] + "..."
		}
		attrs = append(attrs, attribute.String(AttrAssignmentBrief, brief))
	}
	if status != "" {
		attrs = append(attrs, attribute.String(AttrAssignmentStatus, status))
	}
	return attrs
}

// ArtifactAttributes returns attributes for shared document operations.
func ArtifactAttributes(name string, exists bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrArtifactName, name),
		attribute.Bool(AttrArtifactExists, exists),
	}
}
