// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable render helpers for the persona
// TUI: syntax-highlighted code blocks, markdown rendering, and artifact
// cards. Components are pure functions of their inputs so views can
// call them on every frame.
package components
