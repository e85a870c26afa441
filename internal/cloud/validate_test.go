// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// TestValidateKey_EmptyKeyNoNetwork verifies blank keys fail locally
// without touching the network.
func TestValidateKey_EmptyKeyNoNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := NewClient("").WithBaseURL(server.URL)
	for _, key := range []string{"", "   ", "\t\n"} {
		_, err := client.ValidateKey(context.Background(), key)
		if !errors.Is(err, ErrEmptyKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrEmptyKey", key, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("empty-key validation made %d network requests", hits.Load())
	}
}

// TestValidateKey_Accepted verifies a 2xx yields Valid=true with a model
// preview capped at 50 entries.
func TestValidateKey_Accepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-or-candidate" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}

		type entry struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		var data []entry
		for i := 0; i < 75; i++ {
			data = append(data, entry{ID: fmt.Sprintf("vendor/model-%d", i), Name: fmt.Sprintf("Model %d", i)})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer server.Close()

	client := NewClient("").WithBaseURL(server.URL)
	result, err := client.ValidateKey(context.Background(), "sk-or-candidate")
	if err != nil {
		t.Fatalf("ValidateKey: %v", err)
	}
	if !result.Valid {
		t.Error("Valid = false, want true")
	}
	if result.Error != "" {
		t.Errorf("Error = %q, want empty", result.Error)
	}
	if len(result.Models) != 50 {
		t.Errorf("got %d models, want 50", len(result.Models))
	}
	if len(result.Models) > 0 && result.Models[0].ID != "vendor/model-0" {
		t.Errorf("Models[0].ID = %q, want vendor/model-0", result.Models[0].ID)
	}
}

// TestValidateKey_Rejected verifies a non-2xx is a normal result, not an
// error.
func TestValidateKey_Rejected(t *testing.T) {
	for _, status := range []int{401, 403, 500} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClient("").WithBaseURL(server.URL)
		result, err := client.ValidateKey(context.Background(), "sk-or-bad")
		server.Close()

		if err != nil {
			t.Fatalf("status %d: ValidateKey returned error %v, want result", status, err)
		}
		if result.Valid {
			t.Errorf("status %d: Valid = true, want false", status)
		}
		if result.Error == "" {
			t.Errorf("status %d: Error is empty", status)
		}
		if len(result.Models) != 0 {
			t.Errorf("status %d: got %d models, want none", status, len(result.Models))
		}
	}
}

// TestValidateKey_RejectedWithMessage verifies the server's own error
// message is surfaced when the rejection body carries one.
func TestValidateKey_RejectedWithMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":"disabled","message":"API key disabled by account owner"}}`)
	}))
	defer server.Close()

	client := NewClient("").WithBaseURL(server.URL)
	result, err := client.ValidateKey(context.Background(), "sk-or-disabled")
	if err != nil {
		t.Fatalf("ValidateKey: %v", err)
	}
	if result.Valid {
		t.Error("Valid = true, want false")
	}
	if result.Error != "API key disabled by account owner" {
		t.Errorf("Error = %q, want the upstream message", result.Error)
	}
}

// TestValidateKey_TransportFailure verifies an unreachable server is an
// error, distinct from a rejected key.
func TestValidateKey_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("").WithBaseURL(server.URL)
	result, err := client.ValidateKey(context.Background(), "sk-or-any")
	if err == nil {
		t.Fatalf("ValidateKey = %+v, want transport error", result)
	}
	if errors.Is(err, ErrEmptyKey) {
		t.Error("transport failure should not be ErrEmptyKey")
	}
}

// TestValidateKey_UnparseableSuccessBody verifies a 2xx with a bad body
// still reports a valid key.
func TestValidateKey_UnparseableSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer server.Close()

	client := NewClient("").WithBaseURL(server.URL)
	result, err := client.ValidateKey(context.Background(), "sk-or-ok")
	if err != nil {
		t.Fatalf("ValidateKey: %v", err)
	}
	if !result.Valid {
		t.Error("Valid = false, want true")
	}
}
