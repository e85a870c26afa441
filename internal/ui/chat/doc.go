// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat view for persona.
//
// The model owns the transcript viewport, the input line, and the
// artifact side panel. Streaming happens off the Bubble Tea loop: a
// Runner goroutine drives the conversation turn and posts
// StreamTokenMsg / StreamCompleteMsg / StreamErrorMsg back into the
// program. While a turn is in flight the input stays visible but
// submissions are rejected, matching the one-in-flight rule enforced
// by the session package.
package chat
