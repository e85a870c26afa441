// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/persona-tui/internal/cloud"
	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/store"
)

// fakeStreamer scripts the upstream: it emits frames then optionally fails.
type fakeStreamer struct {
	mu       sync.Mutex
	frames   []string
	err      error
	requests []cloud.CompletionRequest
	block    chan struct{} // when set, ChatStream waits before returning
}

func (f *fakeStreamer) ChatStream(ctx context.Context, req cloud.CompletionRequest, callback cloud.StreamCallback) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	var full strings.Builder
	for _, frame := range f.frames {
		full.WriteString(frame)
		callback(cloud.StreamChunk{Content: frame})
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return "", f.err
	}
	return full.String(), nil
}

func (f *fakeStreamer) IsConfigured() bool { return true }

func (f *fakeStreamer) SetAPIKey(string) {}

func newTestOrchestrator(t *testing.T, streamer Streamer) (*Orchestrator, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return New(st, streamer, nil), st
}

// TestSubmit_Success verifies the full happy path: conversation created,
// user message first, one assistant message with the complete text.
func TestSubmit_Success(t *testing.T) {
	streamer := &fakeStreamer{frames: []string{"Hello", " there"}}
	orch, st := newTestOrchestrator(t, streamer)

	var partials []string
	result, err := orch.Submit(context.Background(), "  hi  ", func(p string) {
		partials = append(partials, p)
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Failed {
		t.Error("Failed = true on success")
	}

	conv, ok := st.Conversation(result.ConversationID)
	if !ok {
		t.Fatal("conversation missing")
	}
	if conv.Title != "hi" {
		t.Errorf("Title = %q, want derived from trimmed input", conv.Title)
	}
	if conv.MessageCount() != 2 {
		t.Fatalf("got %d messages, want user + assistant", conv.MessageCount())
	}
	if conv.Messages[0].Role != model.RoleUser || conv.Messages[0].Content != "hi" {
		t.Errorf("messages[0] = %+v", conv.Messages[0])
	}
	if conv.Messages[1].Role != model.RoleAssistant || conv.Messages[1].Content != "Hello there" {
		t.Errorf("messages[1] = %+v", conv.Messages[1])
	}

	// The transient view grew monotonically and was never persisted as its
	// own message.
	if len(partials) != 2 || partials[0] != "Hello" || partials[1] != "Hello there" {
		t.Errorf("partials = %q", partials)
	}
}

// TestSubmit_EmptyInput verifies blank input fails locally with no state
// change.
func TestSubmit_EmptyInput(t *testing.T) {
	streamer := &fakeStreamer{}
	orch, st := newTestOrchestrator(t, streamer)

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := orch.Submit(context.Background(), input, nil); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Submit(%q) = %v, want ErrEmptyInput", input, err)
		}
	}
	if len(st.Conversations()) != 0 {
		t.Error("blank input created a conversation")
	}
	if len(streamer.requests) != 0 {
		t.Error("blank input reached the network")
	}
}

// TestSubmit_FailureAfterPartial verifies the failure contract: the partial
// text is discarded, exactly one assistant message with the fixed error
// text is recorded, and no artifacts are extracted from the partial.
func TestSubmit_FailureAfterPartial(t *testing.T) {
	code := strings.Repeat("x", 100)
	streamer := &fakeStreamer{
		frames: []string{"```js\n" + code + "\n```\nand then"},
		err:    &cloud.StreamError{Partial: "```js\n" + code + "\n```\nand then", Err: errors.New("connection reset")},
	}
	orch, st := newTestOrchestrator(t, streamer)

	result, err := orch.Submit(context.Background(), "write code", nil)
	if err == nil {
		t.Fatal("Submit should surface the stream error")
	}
	if result == nil || !result.Failed {
		t.Fatalf("result = %+v, want Failed", result)
	}

	conv, _ := st.Conversation(result.ConversationID)
	if conv.MessageCount() != 2 {
		t.Fatalf("got %d messages, want 2", conv.MessageCount())
	}
	reply := conv.Messages[1]
	if reply.Content != errorReplyText {
		t.Errorf("error reply = %q, want fixed text", reply.Content)
	}
	if len(reply.ArtifactIDs) != 0 {
		t.Error("error reply carries artifact references")
	}
	if len(st.Artifacts()) != 0 {
		t.Error("artifacts were extracted from partial text")
	}
	// The user message is still durable.
	if conv.Messages[0].Content != "write code" {
		t.Errorf("user message = %q", conv.Messages[0].Content)
	}
}

// TestSubmit_ExtractsArtifacts verifies success commits artifacts and links
// them from the assistant message.
func TestSubmit_ExtractsArtifacts(t *testing.T) {
	code := strings.Repeat("x", 60)
	streamer := &fakeStreamer{frames: []string{"Sure:\n```js\n" + code + "\n```"}}
	orch, st := newTestOrchestrator(t, streamer)

	result, err := orch.Submit(context.Background(), "write code", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.Artifacts) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(result.Artifacts))
	}
	a := result.Artifacts[0]
	if a.Title != "Js Snippet 1" || a.Type != model.ArtifactCode {
		t.Errorf("artifact = %+v", a)
	}
	if a.ConversationID != result.ConversationID {
		t.Errorf("artifact conversation = %q, want %q", a.ConversationID, result.ConversationID)
	}

	if len(result.Message.ArtifactIDs) != 1 || result.Message.ArtifactIDs[0] != a.ID {
		t.Errorf("message references = %v", result.Message.ArtifactIDs)
	}
	resolved := st.ArtifactsForMessage(result.Message)
	if len(resolved) != 1 || resolved[0].ID != a.ID {
		t.Errorf("resolution failed: %v", resolved)
	}
}

// TestSubmit_NoFences verifies a plain reply commits with no artifacts.
func TestSubmit_NoFences(t *testing.T) {
	streamer := &fakeStreamer{frames: []string{"Just words."}}
	orch, st := newTestOrchestrator(t, streamer)

	result, err := orch.Submit(context.Background(), "chat", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.Artifacts) != 0 || len(result.Message.ArtifactIDs) != 0 {
		t.Errorf("unexpected artifacts: %+v", result)
	}
	if len(st.Artifacts()) != 0 {
		t.Error("artifact table should be empty")
	}
}

// TestSubmit_Busy verifies mutual exclusion: a concurrent submit fails
// fast with ErrBusy and leaves no trace.
func TestSubmit_Busy(t *testing.T) {
	block := make(chan struct{})
	streamer := &fakeStreamer{frames: []string{"slow"}, block: block}
	orch, st := newTestOrchestrator(t, streamer)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := orch.Submit(context.Background(), "first", nil); err != nil {
			t.Errorf("first Submit: %v", err)
		}
	}()

	// Wait until the first turn is in flight.
	for !orch.Busy() {
		runtime.Gosched()
	}

	if _, err := orch.Submit(context.Background(), "second", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Submit = %v, want ErrBusy", err)
	}

	close(block)
	<-done

	// Only the first turn left state behind.
	if got := len(st.Conversations()); got != 1 {
		t.Errorf("got %d conversations, want 1", got)
	}
	if !strings.Contains(st.Conversations()[0].Messages[0].Content, "first") {
		t.Error("rejected submission mutated state")
	}
}

// TestSubmit_SystemPromptPrepended verifies the persona's system prompt
// leads the wire history.
func TestSubmit_SystemPromptPrepended(t *testing.T) {
	streamer := &fakeStreamer{frames: []string{"ok"}}
	orch, st := newTestOrchestrator(t, streamer)

	persona := st.ActivePersona()
	if _, err := orch.Submit(context.Background(), "hello", nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	req := streamer.requests[0]
	if len(req.Messages) < 2 {
		t.Fatalf("history = %+v", req.Messages)
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != persona.SystemPrompt {
		t.Errorf("history[0] = %+v, want persona system prompt", req.Messages[0])
	}
	if req.Messages[len(req.Messages)-1].Content != "hello" {
		t.Errorf("history tail = %+v", req.Messages[len(req.Messages)-1])
	}
	if req.Model != persona.Model {
		t.Errorf("model = %q, want persona model %q", req.Model, persona.Model)
	}
	if req.Temperature != persona.Temperature {
		t.Errorf("temperature = %v, want %v", req.Temperature, persona.Temperature)
	}
}

// TestSubmit_ModelOverride verifies the process-local override wins for
// the request and never reaches the stored persona, in memory or on
// disk.
func TestSubmit_ModelOverride(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(dir, nil)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	streamer := &fakeStreamer{frames: []string{"ok"}}
	orch := New(st, streamer, nil)

	storedModel := st.ActivePersona().Model

	orch.OverrideModel("openai/gpt-4o-mini")
	if _, err := orch.Submit(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if got := streamer.requests[0].Model; got != "openai/gpt-4o-mini" {
		t.Errorf("request model = %q, want the override", got)
	}
	if got := st.ActivePersona().Model; got != storedModel {
		t.Errorf("stored persona model = %q, want %q", got, storedModel)
	}

	// The turn saved state; reload it and make sure the override did
	// not ride along.
	reopened, err := store.Open(dir, nil)
	if err != nil {
		t.Fatalf("store.Open (reopen): %v", err)
	}
	if got := reopened.ActivePersona().Model; got != storedModel {
		t.Errorf("persisted persona model = %q, want %q", got, storedModel)
	}
}

// TestSubmit_ReusesActiveConversation verifies consecutive turns share one
// conversation.
func TestSubmit_ReusesActiveConversation(t *testing.T) {
	streamer := &fakeStreamer{frames: []string{"reply"}}
	orch, st := newTestOrchestrator(t, streamer)

	first, err := orch.Submit(context.Background(), "one", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := orch.Submit(context.Background(), "two", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if first.ConversationID != second.ConversationID {
		t.Error("second turn opened a new conversation")
	}
	conv, _ := st.Conversation(first.ConversationID)
	if conv.MessageCount() != 4 {
		t.Errorf("got %d messages, want 4", conv.MessageCount())
	}
}
