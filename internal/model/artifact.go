// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ARTIFACT TYPES
// =============================================================================

// ArtifactType classifies extracted content for rendering.
type ArtifactType string

const (
	ArtifactCode     ArtifactType = "code"
	ArtifactDocument ArtifactType = "document"
	ArtifactImage    ArtifactType = "image"
	ArtifactHTML     ArtifactType = "html"
	ArtifactMarkdown ArtifactType = "markdown"
	ArtifactMermaid  ArtifactType = "mermaid"
	ArtifactSVG      ArtifactType = "svg"
)

// Artifact is a structured content unit extracted from an assistant response
// and tracked as a first-class persisted entity. Artifact IDs are globally
// unique across all conversations.
type Artifact struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Type           ArtifactType   `json:"type"`
	Content        string         `json:"content"`
	Language       string         `json:"language,omitempty"`
	PersonaID      string         `json:"persona_id"`
	ConversationID string         `json:"conversation_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ArtifactDraft is an artifact prior to persistence: no ID or timestamps.
// Drafts are produced by extraction and promoted by the store.
type ArtifactDraft struct {
	Title          string
	Type           ArtifactType
	Content        string
	Language       string
	PersonaID      string
	ConversationID string
}

// Promote converts a draft into a persisted artifact, assigning identity
// and timestamps.
func (d ArtifactDraft) Promote() *Artifact {
	now := time.Now()
	return &Artifact{
		ID:             uuid.NewString(),
		Title:          d.Title,
		Type:           d.Type,
		Content:        d.Content,
		Language:       d.Language,
		PersonaID:      d.PersonaID,
		ConversationID: d.ConversationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
