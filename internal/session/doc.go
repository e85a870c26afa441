// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session orchestrates the chat turn lifecycle.
//
// A submission appends the user message before any network activity, streams
// the assistant reply as a transient view that is never persisted, and
// commits exactly one assistant message when the turn ends: the full reply
// with its extracted artifacts on success, a fixed error reply on failure.
// One turn is in flight at a time.
package session
