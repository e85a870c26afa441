// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - The Bubble Tea model for the chat view.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/persona-tui/internal/model"
	"github.com/jeranaias/persona-tui/internal/store"
	"github.com/jeranaias/persona-tui/internal/ui/components"
	"github.com/jeranaias/persona-tui/internal/ui/styles"
)

// mode is the current input mode of the view.
type mode int

const (
	modeChat mode = iota
	modePersonaPicker
)

// Model is the chat view state.
type Model struct {
	theme  *styles.Theme
	st     *store.Store
	runner *Runner

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	md       *components.MarkdownRenderer

	// Dimensions
	width  int
	height int
	ready  bool

	// Streaming state. partial is the transient in-flight reply; it is
	// display-only and never written to the store. turn identifies the
	// turn whose stream messages are honored; anything else is stale.
	streaming bool
	partial   string
	turn      uint64
	cancel    context.CancelFunc

	// Panels
	mode          mode
	showArtifacts bool
	personaCursor int

	// Notices
	errText   string
	statusMsg string

	// ShowTimestamps controls per-message timestamps in the transcript.
	// Set from config before the program starts.
	ShowTimestamps bool
}

// New creates the chat model.
func New(st *store.Store, runner *Runner, theme *styles.Theme) *Model {
	input := textinput.New()
	input.Placeholder = "Message your persona..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	vp := viewport.New(80, 20)

	return &Model{
		theme:    theme,
		st:       st,
		runner:   runner,
		viewport: vp,
		input:    input,
		spinner:  sp,
		md:       components.NewMarkdownRenderer(76),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// activeConversation returns the current conversation, or nil before
// the first message.
func (m *Model) activeConversation() *model.Conversation {
	id := m.st.ActiveConversationID()
	if id == "" {
		return nil
	}
	if c, ok := m.st.Conversation(id); ok {
		return c
	}
	return nil
}

// conversationArtifacts returns the stored artifacts for the active
// conversation, newest last.
func (m *Model) conversationArtifacts() []*model.Artifact {
	id := m.st.ActiveConversationID()
	if id == "" {
		return nil
	}
	var out []*model.Artifact
	for _, a := range m.st.Artifacts() {
		if a.ConversationID == id {
			out = append(out, a)
		}
	}
	return out
}

// submit starts a conversation turn for the typed input.
//
// RELIABILITY: streaming flips on here, inside the update loop, not
// when StreamStartMsg arrives. A second enter in the gap before the
// runner's first message is rejected right away, so only one turn per
// model is ever in flight.
func (m *Model) submit() {
	text := m.input.Value()
	if text == "" || m.streaming {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.turn++
	m.streaming = true
	m.partial = ""
	m.cancel = cancel
	m.errText = ""
	m.statusMsg = ""
	m.input.Reset()

	go m.runner.Run(ctx, m.turn, text)
}

// cancelStream aborts the in-flight turn, if any.
func (m *Model) cancelStream() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
