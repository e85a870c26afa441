// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamChunk represents a single decoded frame from the streaming response.
//
// Two envelope shapes are accepted: the OpenAI-compatible shape used by
// OpenRouter ({"choices":[{"delta":{"content":...}}]}) and the flattened
// shape some proxies emit ({"content":...}). GetContent resolves either.
type StreamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content string `json:"content"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// GetContent returns this frame's content delta.
func (c *StreamChunk) GetContent() string {
	if len(c.Choices) > 0 && c.Choices[0].Delta.Content != "" {
		return c.Choices[0].Delta.Content
	}
	return c.Content
}

// IsDone returns true if the stream has finished.
func (c *StreamChunk) IsDone() bool {
	if len(c.Choices) > 0 {
		return c.Choices[0].FinishReason != ""
	}
	return false
}

// StreamCallback is the function type called for each received chunk.
type StreamCallback func(chunk StreamChunk)

// StreamOpenError indicates the stream could not be opened at all: the
// request failed before any response byte arrived, or the server rejected
// it outright. No partial content exists in this case.
type StreamOpenError struct {
	Err error
}

// Error implements the error interface.
func (e *StreamOpenError) Error() string {
	return fmt.Sprintf("stream unavailable: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamOpenError) Unwrap() error {
	return e.Err
}

// StreamError represents an error that interrupted an open stream,
// preserving the partial content received before the failure.
type StreamError struct {
	Partial string // Content received before error
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// SSE READER
// =============================================================================

// doneSentinel terminates the stream. It is matched literally, never
// parsed as JSON.
var doneSentinel = []byte("[DONE]")

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{
		reader: bufio.NewReader(r),
	}
}

// ReadEvent reads the next SSE data payload from the stream. Lines without
// a "data:" field (comments, ids, retry hints) are skipped. Returns io.EOF
// when the stream ends.
func (s *SSEReader) ReadEvent() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return bytes.Join(dataLines, []byte("\n")), nil
				}
				return nil, io.EOF
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Ignore other fields (event:, id:, retry:, comments starting with :)
	}
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream performs a streaming chat completion request, invoking the
// callback once per content frame. It returns the full accumulated
// response text on success.
//
// Failure distinguishes where the stream broke: a *StreamOpenError when no
// byte was ever received, a *StreamError carrying the partial text when the
// connection dropped mid-response. Context cancellation surfaces as a
// *StreamError wrapping ctx.Err().
func (c *Client) ChatStream(ctx context.Context, req CompletionRequest, callback StreamCallback) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	req.Stream = true
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(httpReq)
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	// PERFORMANCE: Shared streaming client, timeout handled via context.
	resp, err := sharedStreamingClient.Do(httpReq)
	if err != nil {
		return "", &StreamOpenError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		return "", &StreamOpenError{Err: c.handleErrorResponse(resp.StatusCode, body)}
	}

	return c.processStream(ctx, resp.Body, callback)
}

// processStream reads and decodes the SSE stream, accumulating content.
func (c *Client) processStream(ctx context.Context, body io.Reader, callback StreamCallback) (string, error) {
	reader := NewSSEReader(body)
	var accumulated strings.Builder

	for {
		select {
		case <-ctx.Done():
			return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: ctx.Err()}
		default:
		}

		data, err := reader.ReadEvent()
		if err != nil {
			if err == io.EOF {
				// Server closed without [DONE]; treat what arrived as the
				// complete response.
				return accumulated.String(), nil
			}
			return accumulated.String(), &StreamError{Partial: accumulated.String(), Err: err}
		}

		if bytes.Equal(data, doneSentinel) {
			return accumulated.String(), nil
		}

		var chunk StreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip malformed frames silently
			continue
		}

		if content := chunk.GetContent(); content != "" {
			accumulated.WriteString(content)
			callback(chunk)
		}

		if chunk.IsDone() {
			return accumulated.String(), nil
		}
	}
}
