// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline executes a fixed, ordered list of stages against one
// topic. Each stage renders its brief at execution time, runs to
// completion, and records its output in the accumulated run state; the
// first failing stage aborts the run.
package pipeline

import (
	"context"

	"github.com/zainaedelson/quartet/pkg/core"
)

// Stage describes one step of a run. The stage list is fixed in code by
// the caller; the executor never reorders or skips entries.
type Stage struct {
	// Name identifies the stage in spans, events, logs, and errors.
	Name string

	// Brief renders the stage's assignment for a topic. Called once per
	// run, at execution time.
	Brief func(topic string) *core.Assignment

	// Run executes the rendered assignment and returns the stage output.
	Run func(ctx context.Context, assignment *core.Assignment) (string, error)

	// UsesArtifact marks stages that persist to the shared document.
	UsesArtifact bool
}

// StageOutput pairs a stage name with what it produced.
type StageOutput struct {
	Stage  string
	Output string
}

// State accumulates outputs as a run progresses. One State per run,
// never shared between runs.
type State struct {
	Topic   string
	Outputs []StageOutput
	Last    string
}

// NewState creates the run state for a topic.
func NewState(topic string) *State {
	return &State{Topic: topic}
}

// Record appends a stage output and updates Last.
func (s *State) Record(stage, output string) {
	s.Outputs = append(s.Outputs, StageOutput{Stage: stage, Output: output})
	s.Last = output
}

// Output returns the recorded output of a named stage.
func (s *State) Output(stage string) (string, bool) {
	for _, out := range s.Outputs {
		if out.Stage == stage {
			return out.Output, true
		}
	}
	return "", false
}
