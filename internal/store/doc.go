// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists the application state for persona.
//
// All durable state (settings, personas, artifacts, conversations, and the
// active persona selection) lives in a single JSON document, studio.json,
// written atomically after every mutation. The active conversation selection
// is session-only and never persisted, so every launch starts on a fresh
// conversation against the remembered persona.
package store
