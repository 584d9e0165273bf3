// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/zainaedelson/quartet/pkg/core"
	qerrors "github.com/zainaedelson/quartet/pkg/errors"
	quartettest "github.com/zainaedelson/quartet/pkg/testing"
)

func textStage(name string, trace *[]string, outputs map[string]string) Stage {
	return Stage{
		Name: name,
		Brief: func(topic string) *core.Assignment {
			*trace = append(*trace, "brief:"+name)
			return core.NewAssignment(name, "Work on "+topic, "")
		},
		Run: func(_ context.Context, assignment *core.Assignment) (string, error) {
			*trace = append(*trace, "run:"+name)
			if assignment.Status != core.AssignmentRunning {
				return "", fmt.Errorf("assignment not marked running: %s", assignment.Status)
			}
			return outputs[name], nil
		},
	}
}

func TestExecutorRunsStagesInOrder(t *testing.T) {
	var trace []string
	outputs := map[string]string{
		"explorer":    "six sources",
		"synthesizer": "an outline",
		"polisher":    "the final piece",
	}

	stages := []Stage{
		textStage("explorer", &trace, outputs),
		textStage("synthesizer", &trace, outputs),
		textStage("polisher", &trace, outputs),
	}

	exec := NewExecutor()
	state, err := exec.Execute(context.Background(), stages, "onboarding")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Briefs render lazily: each one only after the prior stage finished.
	want := []string{
		"brief:explorer", "run:explorer",
		"brief:synthesizer", "run:synthesizer",
		"brief:polisher", "run:polisher",
	}
	if len(trace) != len(want) {
		t.Fatalf("unexpected trace %v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("unexpected trace %v", trace)
		}
	}

	if state.Topic != "onboarding" {
		t.Errorf("unexpected topic %q", state.Topic)
	}
	if state.Last != "the final piece" {
		t.Errorf("unexpected last output %q", state.Last)
	}
	if len(state.Outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(state.Outputs))
	}
	if state.Outputs[0].Stage != "explorer" || state.Outputs[2].Stage != "polisher" {
		t.Errorf("outputs out of order: %+v", state.Outputs)
	}
	if got, ok := state.Output("synthesizer"); !ok || got != "an outline" {
		t.Errorf("stage lookup failed: %q, %v", got, ok)
	}
}

func TestExecutorAbortsOnFailure(t *testing.T) {
	boom := errors.New("provider unreachable")
	var ranThird bool
	var failed *core.Assignment

	stages := []Stage{
		{
			Name:  "explorer",
			Brief: func(topic string) *core.Assignment { return core.NewAssignment("explorer", topic, "") },
			Run:   func(_ context.Context, _ *core.Assignment) (string, error) { return "ok", nil },
		},
		{
			Name:  "synthesizer",
			Brief: func(topic string) *core.Assignment { return core.NewAssignment("synthesizer", topic, "") },
			Run: func(_ context.Context, assignment *core.Assignment) (string, error) {
				failed = assignment
				return "", boom
			},
		},
		{
			Name:  "refiner",
			Brief: func(topic string) *core.Assignment { return core.NewAssignment("refiner", topic, "") },
			Run: func(_ context.Context, _ *core.Assignment) (string, error) {
				ranThird = true
				return "never", nil
			},
		},
	}

	exec := NewExecutor()
	state, err := exec.Execute(context.Background(), stages, "onboarding")
	if err == nil {
		t.Fatal("expected stage failure to abort the run")
	}
	if state != nil {
		t.Errorf("expected no state on failure, got %+v", state)
	}
	if ranThird {
		t.Error("stage after the failure must not run")
	}

	pe := qerrors.AsPipelineError(err)
	if pe.Code != qerrors.CodeStageFailure {
		t.Errorf("expected STAGE_FAILURE, got %s", pe.Code)
	}
	if pe.Context["stage"] != "synthesizer" {
		t.Errorf("stage name missing from context: %v", pe.Context)
	}
	if !errors.Is(err, boom) {
		t.Error("underlying error lost in the wrap")
	}

	if failed.Status != core.AssignmentFailed {
		t.Errorf("expected failed assignment, got %s", failed.Status)
	}
	if failed.Error != "provider unreachable" {
		t.Errorf("assignment missing diagnostic: %q", failed.Error)
	}
}

func TestExecutorEmitsStageEvents(t *testing.T) {
	collector := quartettest.NewEventCollector()

	stages := []Stage{
		{
			Name:  "explorer",
			Brief: func(topic string) *core.Assignment { return core.NewAssignment("explorer", topic, "") },
			Run:   func(_ context.Context, _ *core.Assignment) (string, error) { return "ok", nil },
		},
		{
			Name:  "synthesizer",
			Brief: func(topic string) *core.Assignment { return core.NewAssignment("synthesizer", topic, "") },
			Run: func(_ context.Context, _ *core.Assignment) (string, error) {
				return "", fmt.Errorf("no converge")
			},
		},
	}

	exec := NewExecutor(WithEmitter(collector))
	if _, err := exec.Execute(context.Background(), stages, "onboarding"); err == nil {
		t.Fatal("expected failure")
	}

	types := collector.EventTypes()
	want := []core.EventType{
		core.EventStageStarted, core.EventStageCompleted,
		core.EventStageStarted, core.EventStageFailed,
	}
	if len(types) != len(want) {
		t.Fatalf("unexpected events %v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("unexpected events %v", types)
		}
	}

	events := collector.Events()
	if events[3].Role != "synthesizer" {
		t.Errorf("failure event should name the stage, got %q", events[3].Role)
	}
	if _, ok := events[0].Payload["run_id"]; !ok {
		t.Error("events should carry the run ID")
	}
}

func TestExecutorCompletesAssignments(t *testing.T) {
	var completed *core.Assignment

	stages := []Stage{{
		Name: "polisher",
		Brief: func(topic string) *core.Assignment {
			completed = core.NewAssignment("polisher", topic, "")
			return completed
		},
		Run: func(_ context.Context, _ *core.Assignment) (string, error) { return "warm copy", nil },
	}}

	exec := NewExecutor()
	if _, err := exec.Execute(context.Background(), stages, "onboarding"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if completed.Status != core.AssignmentCompleted {
		t.Errorf("expected completed assignment, got %s", completed.Status)
	}
	if completed.Result != "warm copy" {
		t.Errorf("assignment missing result: %q", completed.Result)
	}
	if completed.FinishedAt.IsZero() {
		t.Error("assignment missing finish time")
	}
}

func TestExecutorNoStages(t *testing.T) {
	exec := NewExecutor()
	_, err := exec.Execute(context.Background(), nil, "onboarding")
	if err == nil {
		t.Fatal("expected error for empty stage list")
	}
	if qerrors.AsPipelineError(err).Code != qerrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", qerrors.AsPipelineError(err).Code)
	}
}

func TestExecutorRejectsNonExecutableStage(t *testing.T) {
	stages := []Stage{{Name: "explorer"}}

	exec := NewExecutor()
	_, err := exec.Execute(context.Background(), stages, "onboarding")
	if err == nil {
		t.Fatal("expected error for stage without brief/run")
	}
	if qerrors.AsPipelineError(err).Code != qerrors.CodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", qerrors.AsPipelineError(err).Code)
	}
}
