// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// API KEY VALIDATION
// =============================================================================

// maxValidationModels caps the model list returned by a validation check.
const maxValidationModels = 50

// ErrEmptyKey indicates validation was attempted with no key. It is
// detected locally; no network request is made.
var ErrEmptyKey = errors.New("API key is required")

// KeyValidation is the outcome of checking a candidate key against OpenRouter.
// A rejected key is a normal outcome (Valid=false with Error populated),
// not a Go error; errors are reserved for not being able to reach
// OpenRouter at all.
type KeyValidation struct {
	Valid  bool        `json:"valid"`
	Models []ModelInfo `json:"models,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ValidateKey checks a candidate API key against the live OpenRouter models
// endpoint.
//
// An empty or blank key fails locally with ErrEmptyKey before any network
// traffic. A reachable server always yields a KeyValidation: 2xx means the
// key works and up to 50 models come back as a preview; any other status
// means the key was rejected. Only transport failures return an error.
func (c *Client) ValidateKey(ctx context.Context, key string) (*KeyValidation, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "persona/0.1.0")

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to validate API key: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Prefer the server's own explanation; fall back to a generic
		// message when the body is empty or not the error shape.
		msg := fmt.Sprintf("Invalid API key (HTTP %d)", resp.StatusCode)
		var apiErr apiErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return &KeyValidation{Valid: false, Error: msg}, nil
	}

	var modelsResp modelsResponse
	if err := json.Unmarshal(body, &modelsResp); err != nil {
		// The key was accepted even if the body did not parse.
		return &KeyValidation{Valid: true}, nil
	}

	models := make([]ModelInfo, 0, maxValidationModels)
	for _, m := range modelsResp.Data {
		if len(models) == maxValidationModels {
			break
		}
		info := ModelInfo{
			ID:          m.ID,
			Name:        m.Name,
			ContextSize: m.ContextLength,
		}
		if m.Pricing != nil {
			info.Pricing = *m.Pricing
		}
		models = append(models, info)
	}

	return &KeyValidation{Valid: true, Models: models}, nil
}
