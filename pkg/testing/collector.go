// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package testing provides helpers for exercising pipelines in tests.
package testing

import (
	"context"
	"sync"

	"github.com/zainaedelson/quartet/pkg/core"
)

// EventCollector records every event emitted during a run. It satisfies
// core.EventEmitter and is safe for concurrent emitters.
type EventCollector struct {
	mu     sync.RWMutex
	events []core.Event
}

// NewEventCollector creates an empty collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]core.Event, 0),
	}
}

// Emit records the event.
func (c *EventCollector) Emit(_ context.Context, event core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of all recorded events in emission order.
func (c *EventCollector) Events() []core.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]core.Event, len(c.events))
	copy(result, c.events)
	return result
}

// EventTypes returns the types of all recorded events in emission order.
func (c *EventCollector) EventTypes() []core.EventType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := make([]core.EventType, len(c.events))
	for i, ev := range c.events {
		types[i] = ev.Type
	}
	return types
}

// OfType returns the recorded events of one type, in emission order.
func (c *EventCollector) OfType(eventType core.EventType) []core.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []core.Event
	for _, ev := range c.events {
		if ev.Type == eventType {
			result = append(result, ev)
		}
	}
	return result
}

// HasEvent reports whether an event of the given type was recorded.
func (c *EventCollector) HasEvent(eventType core.EventType) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ev := range c.events {
		if ev.Type == eventType {
			return true
		}
	}
	return false
}

// Count returns the number of recorded events.
func (c *EventCollector) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

// Reset clears all recorded events.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}

var _ core.EventEmitter = (*EventCollector)(nil)
