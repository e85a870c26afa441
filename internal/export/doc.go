// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides conversation export functionality for persona.
// Conversations export to Markdown for reading and to JSON for a faithful,
// re-importable copy including extracted artifacts.
package export
