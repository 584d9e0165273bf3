package core

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus describes the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentRunning   AssignmentStatus = "running"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentFailed    AssignmentStatus = "failed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Assignment is a rendered stage instruction: the concrete brief one role
// receives for one run. It is built fresh at execution time, never reused
// across runs, and records its own outcome.
type Assignment struct {
	ID         string
	Role       string
	Directive  string
	Expected   string
	Status     AssignmentStatus
	Result     string
	Error      string
	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewAssignment creates a pending assignment with a generated ID.
func NewAssignment(role, directive, expected string) *Assignment {
	return &Assignment{
		ID:        uuid.NewString(),
		Role:      role,
		Directive: directive,
		Expected:  expected,
		Status:    AssignmentPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Start marks the assignment as running.
func (a *Assignment) Start() {
	a.Status = AssignmentRunning
	a.StartedAt = time.Now().UTC()
}

// Complete marks the assignment as completed with its result text.
func (a *Assignment) Complete(result string) {
	a.Status = AssignmentCompleted
	a.Result = result
	a.FinishedAt = time.Now().UTC()
}

// Fail marks the assignment as failed with a diagnostic message.
func (a *Assignment) Fail(msg string) {
	a.Status = AssignmentFailed
	a.Error = msg
	a.FinishedAt = time.Now().UTC()
}

// Cancel marks the assignment as cancelled, typically on context
// cancellation before or during execution.
func (a *Assignment) Cancel(msg string) {
	a.Status = AssignmentCancelled
	a.Error = msg
	a.FinishedAt = time.Now().UTC()
}
