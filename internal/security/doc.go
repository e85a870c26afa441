// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security provides encryption for credentials stored at rest.
//
// API keys are encrypted with AES-256-GCM before being written into the
// persisted state file. The encryption key is derived via PBKDF2-SHA-256
// from random key material kept in a 0600 file alongside the data.
// Encrypted values carry an "ENC:" prefix so plaintext values written by
// older versions still load.
package security
