package core

import (
	"context"
	"time"
)

// EventType identifies a semantic event emitted during a pipeline run.
type EventType string

const (
	EventRoleThinking   EventType = "role.thinking"
	EventStageStarted   EventType = "stage.started"
	EventStageCompleted EventType = "stage.completed"
	EventStageFailed    EventType = "stage.failed"
	EventToolInvoked    EventType = "tool.invoked"
	EventRunFallback    EventType = "run.fallback"
)

// Event captures a semantic streaming/logging event.
type Event struct {
	Type         EventType
	Role         string
	AssignmentID string
	Timestamp    time.Time
	Payload      map[string]any
}

// EventEmitter receives semantic events.
type EventEmitter interface {
	Emit(ctx context.Context, event Event)
}

// NoopEventEmitter is a default no-op implementation.
type NoopEventEmitter struct{}

// Emit implements EventEmitter.
func (NoopEventEmitter) Emit(_ context.Context, _ Event) {}

// NewEvent builds a default event with timestamp.
func NewEvent(eventType EventType, role string, assignmentID string, payload map[string]any) Event {
	return Event{
		Type:         eventType,
		Role:         role,
		AssignmentID: assignmentID,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}
