// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for persona.
//
// Configuration lives in ~/.persona/config.toml with sensible defaults and
// environment variable overrides (PERSONA_*). Application state (personas,
// conversations, artifacts) is not configuration and lives in the data
// directory instead; see the store package.
package config
