// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runner.go - Bridges the blocking conversation turn into Bubble Tea.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/persona-tui/internal/session"
)

// sender is the subset of tea.Program the runner needs. Tests use a
// recording fake.
type sender interface {
	Send(msg tea.Msg)
}

// Runner executes conversation turns in a goroutine and posts progress
// back into the Bubble Tea program.
type Runner struct {
	program sender
	orch    *session.Orchestrator
}

// NewRunner creates a runner. SetProgram must be called before Run.
func NewRunner(orch *session.Orchestrator) *Runner {
	return &Runner{orch: orch}
}

// SetProgram attaches the running Bubble Tea program. This cannot
// happen at construction time because the program is created with the
// model, which is created with the runner.
func (r *Runner) SetProgram(p sender) {
	r.program = p
}

// Run executes one turn. Call in a goroutine; all progress flows back
// through program.Send, stamped with the caller's turn id.
func (r *Runner) Run(ctx context.Context, turn uint64, text string) {
	if r.program == nil {
		return
	}

	r.program.Send(StreamStartMsg{Turn: turn, StartTime: time.Now()})

	result, err := r.orch.Submit(ctx, text, func(partial string) {
		r.program.Send(StreamTokenMsg{Turn: turn, Partial: partial})
	})
	if err != nil {
		r.program.Send(StreamErrorMsg{Turn: turn, Err: err, Result: result})
		return
	}
	r.program.Send(StreamCompleteMsg{Turn: turn, Result: result})
}
