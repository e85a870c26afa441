// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"github.com/jeranaias/persona-tui/internal/model"
)

// =============================================================================
// PERSISTED STATE
// =============================================================================

// AppState is the single persisted record. The JSON field names match the
// historical on-disk format, so state files written by earlier releases
// still load.
//
// ActiveConversationID is deliberately absent: conversation selection is
// session state, and persisting it would reopen a possibly-deleted
// conversation on the next launch.
type AppState struct {
	Settings        model.Settings        `json:"settings"`
	Personas        []*model.Persona      `json:"personas"`
	Artifacts       []*model.Artifact     `json:"artifacts"`
	Conversations   []*model.Conversation `json:"conversations"`
	ActivePersonaID string                `json:"activePersonaId"`
}

// NewAppState returns the state seeded for a first launch: default settings,
// the built-in persona, and no history.
func NewAppState() AppState {
	return AppState{
		Settings:        model.DefaultSettings(),
		Personas:        []*model.Persona{model.DefaultPersona()},
		Artifacts:       nil,
		Conversations:   nil,
		ActivePersonaID: model.DefaultPersonaID,
	}
}

// normalize repairs a loaded state so the rest of the app can rely on its
// shape: the default persona always exists and the active persona always
// resolves to a real one.
func (s *AppState) normalize() {
	hasDefault := false
	for _, p := range s.Personas {
		if p.ID == model.DefaultPersonaID {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		s.Personas = append([]*model.Persona{model.DefaultPersona()}, s.Personas...)
	}

	if s.findPersona(s.ActivePersonaID) == nil {
		s.ActivePersonaID = model.DefaultPersonaID
	}
}

func (s *AppState) findPersona(id string) *model.Persona {
	for _, p := range s.Personas {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *AppState) findConversation(id string) *model.Conversation {
	for _, c := range s.Conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *AppState) findArtifact(id string) *model.Artifact {
	for _, a := range s.Artifacts {
		if a.ID == id {
			return a
		}
	}
	return nil
}
