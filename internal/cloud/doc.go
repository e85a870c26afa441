// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides OpenRouter integration for LLM inference.
//
// OpenRouter exposes many models behind one OpenAI-compatible API. This
// package implements the client persona talks to: streaming chat
// completions over SSE, model listing, and API key validation.
//
// Two failure modes matter to callers and are kept distinct. A
// StreamOpenError means the stream never produced a byte (connection
// refused, auth rejected); a StreamError carries the partial content
// received before the connection dropped mid-response.
package cloud
