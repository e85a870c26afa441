// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/jeranaias/persona-tui/internal/artifact"
	"github.com/jeranaias/persona-tui/internal/cloud"
	"github.com/jeranaias/persona-tui/internal/index"
	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/store"
)

// =============================================================================
// ERRORS AND CONSTANTS
// =============================================================================

var (
	// ErrBusy indicates a turn is already in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrEmptyInput indicates the submission was blank.
	ErrEmptyInput = errors.New("message is empty")
)

// errorReplyText is the assistant reply recorded when a turn fails for any
// reason. The real cause goes to the caller as an error; the transcript
// stays uniform.
const errorReplyText = "Sorry, I encountered an error. Please check your API key and try again."

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Streamer is the upstream chat dependency. *cloud.Client satisfies it.
type Streamer interface {
	ChatStream(ctx context.Context, req cloud.CompletionRequest, callback cloud.StreamCallback) (string, error)
	IsConfigured() bool
	SetAPIKey(key string)
}

// Result is the outcome of a completed turn.
type Result struct {
	ConversationID string
	Message        *model.Message
	Artifacts      []*model.Artifact
	Failed         bool
}

// Orchestrator runs chat turns against the store and the upstream client.
type Orchestrator struct {
	store    *store.Store
	streamer Streamer
	index    *index.ArtifactIndex // optional
	busy     atomic.Bool

	// modelOverride, when set, wins over the persona and the stored
	// settings. It lives only in this process.
	modelOverride string
}

// New creates an orchestrator. idx may be nil to disable search indexing.
func New(st *store.Store, streamer Streamer, idx *index.ArtifactIndex) *Orchestrator {
	return &Orchestrator{
		store:    st,
		streamer: streamer,
		index:    idx,
	}
}

// Busy reports whether a turn is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// OverrideModel forces a model for every subsequent turn. The override
// is never written back to the store. Call before the first Submit.
func (o *Orchestrator) OverrideModel(id string) {
	o.modelOverride = strings.TrimSpace(id)
}

// Submit runs one full chat turn.
//
// The trimmed input becomes a user message appended (and persisted) before
// any network activity, so it survives whatever happens next. onDelta
// receives the accumulated reply text as frames arrive; that view is
// transient and never stored. When the stream ends the turn commits exactly
// one assistant message: the full reply plus extracted artifacts on
// success, the fixed error reply with no artifacts on failure. The returned
// error describes the failure cause; the Result is valid either way.
//
// A second Submit while one is in flight fails immediately with ErrBusy
// and has no side effects.
func (o *Orchestrator) Submit(ctx context.Context, text string, onDelta func(partial string)) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer o.busy.Store(false)

	persona := o.store.ActivePersona()
	settings := o.store.Settings()

	// Resolve or create the conversation.
	conversationID := o.store.ActiveConversationID()
	if _, ok := o.store.Conversation(conversationID); conversationID == "" || !ok {
		conv := model.NewConversation(persona.ID, model.DeriveTitle(text))
		if err := o.store.AddConversation(conv); err != nil {
			return nil, err
		}
		o.store.SetActiveConversationID(conv.ID)
		conversationID = conv.ID
	}

	// The user message is durable before the first byte leaves the machine.
	if err := o.store.AppendMessage(conversationID, model.NewUserMessage(text)); err != nil {
		return nil, err
	}

	opts := model.ResolveGeneration(persona, settings)
	if o.modelOverride != "" {
		opts.Model = o.modelOverride
	}
	history := o.buildHistory(conversationID, opts.SystemPrompt)

	var accumulated strings.Builder
	full, err := o.streamer.ChatStream(ctx, cloud.CompletionRequest{
		Model:       opts.Model,
		Messages:    history,
		Temperature: opts.Temperature,
	}, func(chunk cloud.StreamChunk) {
		accumulated.WriteString(chunk.GetContent())
		if onDelta != nil {
			onDelta(accumulated.String())
		}
	})

	if err != nil {
		return o.commitFailure(conversationID, persona.ID), err
	}
	return o.commitSuccess(conversationID, persona.ID, full)
}

// buildHistory flattens the conversation into wire messages, prepending the
// resolved system prompt when there is one.
func (o *Orchestrator) buildHistory(conversationID, systemPrompt string) []cloud.ChatMessage {
	var history []cloud.ChatMessage
	if systemPrompt != "" {
		history = append(history, cloud.ChatMessage{Role: string(model.RoleSystem), Content: systemPrompt})
	}

	conv, ok := o.store.Conversation(conversationID)
	if !ok {
		return history
	}
	for _, msg := range conv.Messages {
		history = append(history, cloud.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return history
}

// commitSuccess extracts artifacts from the final text and records the
// assistant message referencing them.
func (o *Orchestrator) commitSuccess(conversationID, personaID, full string) (*Result, error) {
	drafts := artifact.Extract(full, personaID, conversationID)

	artifacts := make([]*model.Artifact, 0, len(drafts))
	artifactIDs := make([]string, 0, len(drafts))
	for _, d := range drafts {
		a := d.Promote()
		artifacts = append(artifacts, a)
		artifactIDs = append(artifactIDs, a.ID)
	}

	if err := o.store.AddArtifacts(artifacts); err != nil {
		return nil, err
	}
	if o.index != nil {
		for _, a := range artifacts {
			// Index failures never fail the turn; the index is rebuildable.
			_ = o.index.Put(context.Background(), a)
		}
	}

	msg := model.NewAssistantMessage(full, personaID, artifactIDs)
	if err := o.store.AppendMessage(conversationID, msg); err != nil {
		return nil, err
	}

	return &Result{
		ConversationID: conversationID,
		Message:        msg,
		Artifacts:      artifacts,
	}, nil
}

// commitFailure records the fixed error reply. No artifacts are extracted
// from partial text.
func (o *Orchestrator) commitFailure(conversationID, personaID string) *Result {
	msg := model.NewAssistantMessage(errorReplyText, personaID, nil)
	// Best effort: the turn already failed, a second error would mask it.
	_ = o.store.AppendMessage(conversationID, msg)
	return &Result{
		ConversationID: conversationID,
		Message:        msg,
		Failed:         true,
	}
}
