// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package artifact

import (
	"fmt"
	"strings"

	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/util"
)

// =============================================================================
// EXTRACTION
// =============================================================================

// MinArtifactSize is the promotion threshold: a fenced block becomes an
// artifact only when its trimmed content is strictly longer than this.
const MinArtifactSize = 50

// fenceMarker opens and closes a code block.
const fenceMarker = "```"

// defaultLanguage is used when a fence carries no language tag.
const defaultLanguage = "plaintext"

// typeForLanguage classifies a fence tag into an artifact type. Anything
// unrecognized is plain code.
var typeForLanguage = map[string]model.ArtifactType{
	"html":     model.ArtifactHTML,
	"mermaid":  model.ArtifactMermaid,
	"svg":      model.ArtifactSVG,
	"markdown": model.ArtifactMarkdown,
	"md":       model.ArtifactMarkdown,
}

// Extract scans a complete assistant response for fenced code blocks and
// returns drafts for the ones worth promoting.
//
// The scan is a single linear pass over lines. A line beginning with ```
// opens a fence whose tag is the remainder of that line; the fence closes
// at the next line that is exactly ``` after trimming. An unterminated
// fence yields nothing. Snippet numbering counts promoted blocks only, so
// a response whose first block is too small still titles its second block
// "... Snippet 1".
func Extract(content, personaID, conversationID string) []model.ArtifactDraft {
	if personaID == "" {
		personaID = model.DefaultPersonaID
	}

	var drafts []model.ArtifactDraft
	lines := strings.Split(content, "\n")

	inFence := false
	language := ""
	var body []string

	for _, line := range lines {
		if !inFence {
			if strings.HasPrefix(line, fenceMarker) {
				inFence = true
				language = strings.TrimSpace(line[len(fenceMarker):])
				body = body[:0]
			}
			continue
		}

		if strings.TrimSpace(line) == fenceMarker {
			inFence = false
			if draft, ok := promote(language, strings.Join(body, "\n"), personaID, conversationID, len(drafts)+1); ok {
				drafts = append(drafts, draft)
			}
			continue
		}

		body = append(body, line)
	}

	// A fence still open at end of input was never terminated: drop it.
	return drafts
}

// promote builds a draft when the block clears the size threshold.
func promote(language, code, personaID, conversationID string, n int) (model.ArtifactDraft, bool) {
	code = strings.TrimSpace(code)
	if len(code) <= MinArtifactSize {
		return model.ArtifactDraft{}, false
	}

	if language == "" {
		language = defaultLanguage
	}

	artifactType, ok := typeForLanguage[language]
	if !ok {
		artifactType = model.ArtifactCode
	}

	return model.ArtifactDraft{
		Title:          fmt.Sprintf("%s Snippet %d", util.Capitalize(language), n),
		Type:           artifactType,
		Content:        code,
		Language:       language,
		PersonaID:      personaID,
		ConversationID: conversationID,
	}, true
}
