// SPDX-License-Identifier: Apache-2.0

package crew

import (
	"fmt"

	"github.com/zainaedelson/quartet/pkg/artifact"
	"github.com/zainaedelson/quartet/pkg/core"
)

// DefaultTopic seeds a run when the inbound message is blank.
const DefaultTopic = "Designing delightful onboarding for a productivity app"

// ExplorerBrief renders the first stage's assignment: gather cross-domain
// background with cited sources. Briefs are pure functions of the topic;
// the same topic always yields the same directive body.
func ExplorerBrief(topic string) *core.Assignment {
	directive := fmt.Sprintf(`Explore adjacent fields for: %s

Your task (must use web search):
1. Start with site:zainaedelson.com to extract relevant biographical and creative context; cite specific pages
2. Use Google to find 4-6 credible external references (press, publications, profiles); cite links
3. Collect 5-8 surprising insights from adjacent domains (history, design, ecology, games, sociology, etc.)
4. Highlight 3-5 metaphors or frameworks that could inform our approach
5. Keep notes concise; avoid long paragraphs

Output concise, bulleted notes suitable for downstream processing. You may include inline links in bullets, but no separate References section is required.`, topic)

	return core.NewAssignment(RoleExplorer, directive,
		"Bulleted background notes with insights, annotated links, and candidate metaphors (no separate References section)")
}

// SynthesizerBrief renders the second stage's assignment: distill the
// explorer's notes and persist the first draft of the shared document.
func SynthesizerBrief(topic string) *core.Assignment {
	directive := fmt.Sprintf(`Synthesize a direct answer for: %s

Use the explorer's notes (assume available) to:
1. Identify the core problem and 3-5 key recommendations
2. Provide a crisp rationale for each recommendation, citing explorer notes
3. Present as a short outline with bullet points and sub-bullets
4. Keep it practical and immediately useful

Save an interim draft to '%s' with sections:
- Direct Answer
- Rationale (short)
(Citations optional; do not include a separate References section.)`, topic, artifact.DocumentName)

	return core.NewAssignment(RoleSynthesizer, directive,
		fmt.Sprintf("A concise Markdown outline saved to '%s' with Direct Answer and Rationale sections (no References section)", artifact.DocumentName))
}

// RefinerBrief renders the third stage's assignment: the first style pass
// over the existing draft.
func RefinerBrief(topic string) *core.Assignment {
	directive := fmt.Sprintf(`Refine the draft for: %s

Take the synthesizer's draft (assume available) and:
1. Infuse subtle poetic rhythm and precise imagery in key lines
2. Keep clarity and brevity as the north star (no purple prose)
3. Maintain section structure; do not bloat length

Update '%s'.`, topic, artifact.DocumentName)

	return core.NewAssignment(RoleRefiner, directive,
		fmt.Sprintf("A refined Markdown draft in '%s' with light poetic touches", artifact.DocumentName))
}

// PolisherBrief renders the final stage's assignment: warmth, humor, and
// one grounding analogy.
func PolisherBrief(topic string) *core.Assignment {
	directive := fmt.Sprintf(`Polish the final for: %s

Take the refiner's draft and:
1. Add small, inclusive jokes or light asides (1-3 max)
2. Ground recommendations with one relatable, everyday analogy
3. Keep tone warm, confident, and human

Finalize '%s'.`, topic, artifact.DocumentName)

	return core.NewAssignment(RolePolisher, directive,
		fmt.Sprintf("A personable, charming final saved as '%s'", artifact.DocumentName))
}
