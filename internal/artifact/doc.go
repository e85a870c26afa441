// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package artifact extracts structured content from assistant responses.
//
// Extraction runs once per response, after streaming completes, never
// against partial text. Fenced code blocks whose trimmed content exceeds a
// size threshold are promoted to artifact drafts; everything smaller stays
// inline in the message.
package artifact
