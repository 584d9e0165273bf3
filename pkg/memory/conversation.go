// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory carries conversation history between pipeline stages.
//
// Each pipeline run opens one session, keyed by the run ID. Every stage
// appends its brief and its final answer, so later stages see the full
// transcript of earlier ones. Sessions are cleared when the run ends.
package memory

import (
	"context"
	"time"
)

// ConversationMessage is a single turn in a run's transcript.
// Only user and assistant turns are recorded; system prompts differ per
// stage and tool exchanges stay inside the stage that made them.
type ConversationMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationMemory stores ordered per-session transcripts.
type ConversationMemory interface {
	// AppendMessage adds a message to the end of a session's transcript.
	AppendMessage(ctx context.Context, sessionID string, msg ConversationMessage) error

	// GetMessages returns a session's transcript in append order.
	GetMessages(ctx context.Context, sessionID string) ([]ConversationMessage, error)

	// Clear removes a session and its transcript.
	Clear(ctx context.Context, sessionID string) error
}
