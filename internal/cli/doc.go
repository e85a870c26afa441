// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and command handlers for the
// persona binary. Each subcommand lives in its own file; shared styles,
// terminal detection, and application wiring live in styles.go,
// terminal.go, and app.go.
package cli
