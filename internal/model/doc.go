// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for personas, conversations,
// messages, artifacts and user settings.
//
// These are pure data contracts: behavior lives in the store and session
// packages. The only logic here is identity generation, title derivation,
// and resolution of generation options (persona overrides falling back to
// global settings).
package model
