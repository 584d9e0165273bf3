// SPDX-License-Identifier: Apache-2.0

package crew

import (
	"strings"
	"testing"

	"github.com/zainaedelson/quartet/pkg/artifact"
	"github.com/zainaedelson/quartet/pkg/core"
)

var briefBuilders = []struct {
	name  string
	build func(topic string) *core.Assignment
}{
	{RoleExplorer, ExplorerBrief},
	{RoleSynthesizer, SynthesizerBrief},
	{RoleRefiner, RefinerBrief},
	{RolePolisher, PolisherBrief},
}

func TestBriefsAreDeterministic(t *testing.T) {
	for _, b := range briefBuilders {
		t.Run(b.name, func(t *testing.T) {
			first := b.build("pricing page redesign")
			second := b.build("pricing page redesign")

			if first.Directive != second.Directive {
				t.Error("directive body must be a pure function of the topic")
			}
			if first.Expected != second.Expected {
				t.Error("expected-output description must be a pure function of the topic")
			}
			if first.ID == second.ID {
				t.Error("each rendered assignment needs its own identity")
			}
		})
	}
}

func TestBriefsNameTheTopic(t *testing.T) {
	const topic = "museum wayfinding signage"
	for _, b := range briefBuilders {
		t.Run(b.name, func(t *testing.T) {
			assignment := b.build(topic)
			if !strings.Contains(assignment.Directive, topic) {
				t.Errorf("directive does not name the topic:\n%s", assignment.Directive)
			}
			if assignment.Role != b.name {
				t.Errorf("expected role %q, got %q", b.name, assignment.Role)
			}
			if assignment.Status != core.AssignmentPending {
				t.Errorf("fresh assignment should be pending, got %s", assignment.Status)
			}
		})
	}
}

func TestDocumentStagesNameTheDocument(t *testing.T) {
	for _, b := range briefBuilders {
		assignment := b.build("topic")
		names := strings.Contains(assignment.Directive, artifact.DocumentName)
		if b.name == RoleExplorer {
			if names {
				t.Errorf("explorer brief must not reference the document")
			}
			continue
		}
		if !names {
			t.Errorf("%s brief must name %s", b.name, artifact.DocumentName)
		}
	}
}

func TestExplorerBriefDirectives(t *testing.T) {
	assignment := ExplorerBrief("topic")
	for _, want := range []string{
		"site:zainaedelson.com",
		"4-6 credible external references",
		"5-8 surprising insights",
		"3-5 metaphors or frameworks",
		"no separate References section",
	} {
		if !strings.Contains(assignment.Directive, want) {
			t.Errorf("explorer directive missing %q", want)
		}
	}
}

func TestSynthesizerBriefSections(t *testing.T) {
	assignment := SynthesizerBrief("topic")
	for _, want := range []string{
		"core problem and 3-5 key recommendations",
		"Direct Answer",
		"Rationale",
		"do not include a separate References section",
	} {
		if !strings.Contains(assignment.Directive, want) {
			t.Errorf("synthesizer directive missing %q", want)
		}
	}
}

func TestRefinerBriefConstraints(t *testing.T) {
	assignment := RefinerBrief("topic")
	for _, want := range []string{
		"poetic rhythm and precise imagery",
		"no purple prose",
		"Maintain section structure",
	} {
		if !strings.Contains(assignment.Directive, want) {
			t.Errorf("refiner directive missing %q", want)
		}
	}
}

func TestPolisherBriefConstraints(t *testing.T) {
	assignment := PolisherBrief("topic")
	for _, want := range []string{
		"inclusive jokes or light asides (1-3 max)",
		"one relatable, everyday analogy",
		"warm, confident, and human",
	} {
		if !strings.Contains(assignment.Directive, want) {
			t.Errorf("polisher directive missing %q", want)
		}
	}
}
