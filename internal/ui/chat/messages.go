// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea message types for the chat view.
package chat

import (
	"time"

	"github.com/jeranaias/persona-tui/internal/session"
)

// Every stream message carries the Turn it belongs to. The model only
// honors messages from its current turn, so a rejected or cancelled
// turn cannot disturb the one still streaming.

// StreamStartMsg signals that a conversation turn began.
type StreamStartMsg struct {
	Turn      uint64
	StartTime time.Time
}

// StreamTokenMsg carries the accumulated reply so far. The view always
// replaces its transient text with Partial rather than appending, so a
// dropped message cannot corrupt the display.
type StreamTokenMsg struct {
	Turn    uint64
	Partial string
}

// StreamCompleteMsg signals a finished turn. Result carries the
// persisted assistant message and any extracted artifacts.
type StreamCompleteMsg struct {
	Turn   uint64
	Result *session.Result
}

// StreamErrorMsg signals a failed turn. The fallback reply has already
// been persisted by the orchestrator; Err is shown as a notice.
type StreamErrorMsg struct {
	Turn   uint64
	Err    error
	Result *session.Result
}
