// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func streamServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("server does not support flushing")
		}
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
	}))
}

func collectStream(t *testing.T, server *httptest.Server) (string, []string, error) {
	t.Helper()
	client := NewClient("sk-or-test").WithBaseURL(server.URL)
	var deltas []string
	full, err := client.ChatStream(context.Background(), CompletionRequest{
		Model:    "openrouter/auto",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	}, func(chunk StreamChunk) {
		deltas = append(deltas, chunk.GetContent())
	})
	return full, deltas, err
}

// TestChatStream_DeltaConcatenation verifies the full text equals the
// concatenation of the callback deltas, in order.
func TestChatStream_DeltaConcatenation(t *testing.T) {
	server := streamServer(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo \"}}]}\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"world\"}}]}\n\n",
		"data: [DONE]\n\n",
	})
	defer server.Close()

	full, deltas, err := collectStream(t, server)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if full != "Hello world" {
		t.Errorf("full = %q, want %q", full, "Hello world")
	}
	if strings.Join(deltas, "") != full {
		t.Errorf("deltas %q do not concatenate to full text %q", deltas, full)
	}
}

// TestChatStream_FlatEnvelope verifies the proxy frame shape decodes too.
func TestChatStream_FlatEnvelope(t *testing.T) {
	server := streamServer(t, []string{
		"data: {\"content\":\"foo\"}\n\n",
		"data: {\"content\":\"bar\"}\n\n",
		"data: [DONE]\n\n",
	})
	defer server.Close()

	full, _, err := collectStream(t, server)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if full != "foobar" {
		t.Errorf("full = %q, want foobar", full)
	}
}

// TestChatStream_DoneNotParsed verifies [DONE] terminates cleanly and any
// frames after it are never delivered.
func TestChatStream_DoneNotParsed(t *testing.T) {
	server := streamServer(t, []string{
		"data: {\"content\":\"before\"}\n\n",
		"data: [DONE]\n\n",
		"data: {\"content\":\"after\"}\n\n",
	})
	defer server.Close()

	full, deltas, err := collectStream(t, server)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if full != "before" {
		t.Errorf("full = %q, want %q", full, "before")
	}
	for _, d := range deltas {
		if d == "after" {
			t.Error("frame after [DONE] was delivered")
		}
	}
}

// TestChatStream_MalformedFramesSkipped verifies bad JSON frames are
// dropped without failing the stream.
func TestChatStream_MalformedFramesSkipped(t *testing.T) {
	server := streamServer(t, []string{
		"data: {\"content\":\"good\"}\n\n",
		"data: {broken json\n\n",
		"data: \n\n",
		"data: {\"content\":\" frames\"}\n\n",
		"data: [DONE]\n\n",
	})
	defer server.Close()

	full, _, err := collectStream(t, server)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if full != "good frames" {
		t.Errorf("full = %q, want %q", full, "good frames")
	}
}

// TestChatStream_IgnoresNonDataLines verifies comments and other SSE
// fields do not reach the decoder.
func TestChatStream_IgnoresNonDataLines(t *testing.T) {
	server := streamServer(t, []string{
		": keep-alive comment\n\n",
		"event: message\ndata: {\"content\":\"payload\"}\n\n",
		"id: 42\nretry: 1000\n\n",
		"data: [DONE]\n\n",
	})
	defer server.Close()

	full, _, err := collectStream(t, server)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if full != "payload" {
		t.Errorf("full = %q, want payload", full)
	}
}

// TestChatStream_EOFWithoutDone verifies a clean close without [DONE] is
// treated as a complete response.
func TestChatStream_EOFWithoutDone(t *testing.T) {
	server := streamServer(t, []string{
		"data: {\"content\":\"partial but fine\"}\n\n",
	})
	defer server.Close()

	full, _, err := collectStream(t, server)
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if full != "partial but fine" {
		t.Errorf("full = %q", full)
	}
}

// TestChatStream_OpenError_HTTPStatus verifies a rejected request yields a
// StreamOpenError, not a StreamError.
func TestChatStream_OpenError_HTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key"}}`)
	}))
	defer server.Close()

	_, _, err := collectStream(t, server)
	var openErr *StreamOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("err = %v (%T), want StreamOpenError", err, err)
	}
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("err should wrap ErrAuthFailed, got %v", err)
	}
}

// TestChatStream_OpenError_ConnectionRefused verifies a transport failure
// before any byte is a StreamOpenError.
func TestChatStream_OpenError_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // deliberately closed

	client := NewClient("sk-or-test").WithBaseURL(server.URL)
	_, err := client.ChatStream(context.Background(), CompletionRequest{Model: "m"}, func(StreamChunk) {})
	var openErr *StreamOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("err = %v (%T), want StreamOpenError", err, err)
	}
}

// TestChatStream_InterruptedPreservesPartial verifies a mid-stream drop
// yields a StreamError carrying the partial content.
func TestChatStream_InterruptedPreservesPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"content\":\"partial \"}\n\n")
		fmt.Fprint(w, "data: {\"content\":\"text\"}\n\n")
		flusher.Flush()

		// Kill the connection without a clean close.
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("server does not support hijacking")
		}
		conn, _, _ := hj.Hijack()
		conn.Close()
	}))
	defer server.Close()

	client := NewClient("sk-or-test").WithBaseURL(server.URL)
	_, err := client.ChatStream(context.Background(), CompletionRequest{Model: "m"}, func(StreamChunk) {})

	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("err = %v (%T), want StreamError", err, err)
	}
	if streamErr.Partial != "partial text" {
		t.Errorf("Partial = %q, want %q", streamErr.Partial, "partial text")
	}
}

// TestChatStream_NotConfigured verifies the local guard.
func TestChatStream_NotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.ChatStream(context.Background(), CompletionRequest{Model: "m"}, func(StreamChunk) {})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

// TestStreamChunk_GetContent covers both envelope shapes.
func TestStreamChunk_GetContent(t *testing.T) {
	flat := StreamChunk{Content: "flat"}
	if flat.GetContent() != "flat" {
		t.Errorf("flat GetContent = %q", flat.GetContent())
	}

	var delta StreamChunk
	delta.Choices = append(delta.Choices, struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	}{})
	delta.Choices[0].Delta.Content = "nested"
	if delta.GetContent() != "nested" {
		t.Errorf("delta GetContent = %q", delta.GetContent())
	}
}
