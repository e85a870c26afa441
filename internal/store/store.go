// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/security"
	"github.com/jeranaias/persona-tui/internal/util"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

// StateFileName is the persisted state document inside the data directory.
const StateFileName = "studio.json"

var (
	// ErrPersonaNotFound indicates an unknown persona ID
	ErrPersonaNotFound = errors.New("persona not found")
	// ErrConversationNotFound indicates an unknown conversation ID
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrArtifactNotFound indicates an unknown artifact ID
	ErrArtifactNotFound = errors.New("artifact not found")
)

// =============================================================================
// STORE
// =============================================================================

// Store owns the application state and its persistence. All access goes
// through its methods; mutators persist the new state before returning.
type Store struct {
	mu     sync.RWMutex
	path   string
	keeper *security.Keeper
	state  AppState

	// activeConversationID is session-only and never written to disk.
	activeConversationID string
}

// Open loads (or seeds) the state file under dir. keeper may be nil, in
// which case the API key is stored in plaintext.
func Open(dir string, keeper *security.Keeper) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		path:   filepath.Join(dir, StateFileName),
		keeper: keeper,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the state file.
func (s *Store) Path() string {
	return s.path
}

// load reads the state document, seeding defaults on first launch.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.state = NewAppState()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var st AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	st.normalize()

	if s.keeper != nil && st.Settings.APIKey != "" {
		key, err := s.keeper.DecryptString(st.Settings.APIKey)
		if err != nil {
			return fmt.Errorf("failed to decrypt stored API key: %w", err)
		}
		st.Settings.APIKey = key
	}

	s.state = st
	return nil
}

// saveLocked persists the current state. Callers must hold s.mu.
// RELIABILITY: Atomic write with fsync prevents a crash mid-save from
// corrupting the only copy of the user's history.
func (s *Store) saveLocked() error {
	out := s.state
	if s.keeper != nil && out.Settings.APIKey != "" {
		enc, err := s.keeper.EncryptString(out.Settings.APIKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt API key: %w", err)
		}
		out.Settings.APIKey = enc
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	// SECURITY: 0600 since the state holds the (encrypted) API key.
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// Save forces a persist of the current state.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings returns a copy of the current settings.
func (s *Store) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// UpdateSettings applies fn to the settings and persists the result.
func (s *Store) UpdateSettings(fn func(*model.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state.Settings)
	return s.saveLocked()
}

// APIKey returns the plaintext API key.
func (s *Store) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings.APIKey
}

// SetAPIKey stores a new API key.
func (s *Store) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Settings.APIKey = key
	return s.saveLocked()
}

// =============================================================================
// PERSONAS
// =============================================================================

// Personas returns the personas in insertion order.
func (s *Store) Personas() []*model.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Persona, len(s.state.Personas))
	copy(out, s.state.Personas)
	return out
}

// Persona looks up a persona by ID.
func (s *Store) Persona(id string) (*model.Persona, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.state.findPersona(id)
	return p, p != nil
}

// ActivePersona returns the currently selected persona. The selection is
// normalized on load, so this always resolves.
func (s *Store) ActivePersona() *model.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.state.findPersona(s.state.ActivePersonaID); p != nil {
		return p
	}
	return s.state.findPersona(model.DefaultPersonaID)
}

// SetActivePersona selects a persona. The selection persists across
// launches.
func (s *Store) SetActivePersona(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.findPersona(id) == nil {
		return ErrPersonaNotFound
	}
	s.state.ActivePersonaID = id
	return s.saveLocked()
}

// AddPersona appends a new persona.
func (s *Store) AddPersona(p *model.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Personas = append(s.state.Personas, p)
	return s.saveLocked()
}

// UpdatePersona replaces the persona with the same ID.
func (s *Store) UpdatePersona(p *model.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.state.Personas {
		if existing.ID == p.ID {
			s.state.Personas[i] = p
			return s.saveLocked()
		}
	}
	return ErrPersonaNotFound
}

// DeletePersona removes a persona. The built-in persona cannot be removed;
// deleting it is a no-op. When the deleted persona was active, the
// selection falls back to the built-in one. Conversations that referenced
// the persona keep their persona ID and render with a fallback name.
func (s *Store) DeletePersona(id string) error {
	if id == model.DefaultPersonaID {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.state.Personas {
		if p.ID == id {
			s.state.Personas = append(s.state.Personas[:i], s.state.Personas[i+1:]...)
			if s.state.ActivePersonaID == id {
				s.state.ActivePersonaID = model.DefaultPersonaID
			}
			return s.saveLocked()
		}
	}
	return ErrPersonaNotFound
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// Conversations returns all conversations, newest last.
func (s *Store) Conversations() []*model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Conversation, len(s.state.Conversations))
	copy(out, s.state.Conversations)
	return out
}

// Conversation looks up a conversation by ID.
func (s *Store) Conversation(id string) (*model.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.state.findConversation(id)
	return c, c != nil
}

// AddConversation appends a conversation and persists.
func (s *Store) AddConversation(c *model.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Conversations = append(s.state.Conversations, c)
	return s.saveLocked()
}

// DeleteConversation removes a conversation. Artifacts extracted from its
// messages stay in the artifact table; they may be referenced elsewhere.
func (s *Store) DeleteConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.state.Conversations {
		if c.ID == id {
			s.state.Conversations = append(s.state.Conversations[:i], s.state.Conversations[i+1:]...)
			if s.activeConversationID == id {
				s.activeConversationID = ""
			}
			return s.saveLocked()
		}
	}
	return ErrConversationNotFound
}

// AppendMessage appends a message to a conversation and persists.
func (s *Store) AppendMessage(conversationID string, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.state.findConversation(conversationID)
	if c == nil {
		return ErrConversationNotFound
	}
	c.Append(msg)
	return s.saveLocked()
}

// ActiveConversationID returns the session's conversation selection, empty
// when no conversation is open.
func (s *Store) ActiveConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeConversationID
}

// SetActiveConversationID records the session's conversation selection.
// This is session state only; it is not written to disk.
func (s *Store) SetActiveConversationID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeConversationID = id
}

// =============================================================================
// ARTIFACTS
// =============================================================================

// Artifacts returns all extracted artifacts.
func (s *Store) Artifacts() []*model.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Artifact, len(s.state.Artifacts))
	copy(out, s.state.Artifacts)
	return out
}

// Artifact looks up an artifact by ID.
func (s *Store) Artifact(id string) (*model.Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a := s.state.findArtifact(id)
	return a, a != nil
}

// AddArtifacts appends extracted artifacts and persists. A nil or empty
// slice is a no-op and does not touch the disk.
func (s *Store) AddArtifacts(artifacts []*model.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Artifacts = append(s.state.Artifacts, artifacts...)
	return s.saveLocked()
}

// DeleteArtifact removes an artifact. Messages keep their artifact ID
// references; resolution simply skips IDs that no longer exist.
func (s *Store) DeleteArtifact(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.state.Artifacts {
		if a.ID == id {
			s.state.Artifacts = append(s.state.Artifacts[:i], s.state.Artifacts[i+1:]...)
			return s.saveLocked()
		}
	}
	return ErrArtifactNotFound
}

// ArtifactsForMessage resolves a message's artifact references against the
// artifact table. Dangling references are skipped.
func (s *Store) ArtifactsForMessage(msg *model.Message) []*model.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Artifact
	for _, id := range msg.ArtifactIDs {
		if a := s.state.findArtifact(id); a != nil {
			out = append(out, a)
		}
	}
	return out
}
