// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryConversation implements ConversationMemory with in-process storage.
// A single store serves many concurrent runs; each run works in its own
// session. Data is lost on restart, which is fine for transcripts that only
// live as long as the run that produced them.
type InMemoryConversation struct {
	mu       sync.RWMutex
	sessions map[string][]ConversationMessage
}

// NewInMemoryConversation creates an empty conversation store.
func NewInMemoryConversation() *InMemoryConversation {
	return &InMemoryConversation{
		sessions: make(map[string][]ConversationMessage),
	}
}

// AppendMessage adds a message to the end of a session's transcript.
func (m *InMemoryConversation) AppendMessage(_ context.Context, sessionID string, msg ConversationMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.SessionID == "" {
		msg.SessionID = sessionID
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	m.sessions[sessionID] = append(m.sessions[sessionID], msg)
	return nil
}

// GetMessages returns a copy of a session's transcript in append order.
func (m *InMemoryConversation) GetMessages(_ context.Context, sessionID string) ([]ConversationMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]ConversationMessage, len(m.sessions[sessionID]))
	copy(messages, m.sessions[sessionID])
	return messages, nil
}

// Clear removes a session and its transcript.
func (m *InMemoryConversation) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// MessageCount returns the number of messages in a session.
func (m *InMemoryConversation) MessageCount(sessionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[sessionID])
}

// SessionCount returns the number of live sessions.
func (m *InMemoryConversation) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
