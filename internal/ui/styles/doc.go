// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the persona TUI.
// All colors use Lip Gloss AdaptiveColor so the same palette works on
// light and dark terminals; the configured theme can force either mode.
package styles
