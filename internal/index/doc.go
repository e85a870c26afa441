// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides artifact indexing for fast full-text search.
//
// The index is a SQLite database derived entirely from the artifact table
// in the state file. It can be rebuilt from scratch at any time, so losing
// or deleting it never loses data.
package index
