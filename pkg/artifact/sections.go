// SPDX-License-Identifier: Apache-2.0

package artifact

import "strings"

// DocumentSections holds the two top-level sections a finished document
// carries. Stage briefs instruct the synthesizer to produce both.
type DocumentSections struct {
	DirectAnswer string
	Rationale    string
}

const (
	directAnswerHeading = "## Direct Answer"
	rationaleHeading    = "## Rationale"
)

// Sections extracts the Direct Answer and Rationale sections from a
// document. The second return value is false when either heading is
// missing, which callers treat as an unfinished document.
func Sections(content string) (DocumentSections, bool) {
	direct, okDirect := sectionBody(content, directAnswerHeading)
	rationale, okRationale := sectionBody(content, rationaleHeading)
	return DocumentSections{
		DirectAnswer: direct,
		Rationale:    rationale,
	}, okDirect && okRationale
}

// sectionBody returns the text between heading and the next H2 heading.
func sectionBody(content, heading string) (string, bool) {
	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "## ") {
			end = i
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n")), true
}
