// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// DefaultTemperature is the sampling temperature used when neither the
// persona nor the caller specifies one.
const DefaultTemperature = 0.7

// =============================================================================
// SETTINGS
// =============================================================================

// Settings is the process-wide user settings singleton, persisted across
// sessions. The API key is never transmitted anywhere except as a bearer
// credential on outbound requests to the completion and model-listing
// endpoints (and it is encrypted at rest, see the security package).
type Settings struct {
	APIKey              string `json:"api_key"`
	SelectedModel       string `json:"selected_model"`
	Theme               string `json:"theme"` // "dark", "light", "system"
	FontSize            int    `json:"font_size"`
	ShowArtifactPreview bool   `json:"show_artifact_preview"`
}

// DefaultSettings returns first-run settings.
func DefaultSettings() Settings {
	return Settings{
		SelectedModel:       FreeModels[0].ID,
		Theme:               "dark",
		FontSize:            14,
		ShowArtifactPreview: true,
	}
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelInfo describes one entry of the curated model list.
type ModelInfo struct {
	ID       string
	Name     string
	Provider string
}

// FreeModels is the curated list of free OpenRouter models offered before
// the user has validated a key and fetched the live listing.
var FreeModels = []ModelInfo{
	{ID: "meta-llama/llama-3.2-3b-instruct:free", Name: "Llama 3.2 3B Instruct (Free)", Provider: "Meta"},
	{ID: "meta-llama/llama-3.1-8b-instruct:free", Name: "Llama 3.1 8B Instruct (Free)", Provider: "Meta"},
	{ID: "google/gemma-2-9b-it:free", Name: "Gemma 2 9B IT (Free)", Provider: "Google"},
	{ID: "mistralai/mistral-7b-instruct:free", Name: "Mistral 7B Instruct (Free)", Provider: "Mistral"},
	{ID: "huggingfaceh4/zephyr-7b-beta:free", Name: "Zephyr 7B Beta (Free)", Provider: "HuggingFace"},
	{ID: "openchat/openchat-7b:free", Name: "OpenChat 7B (Free)", Provider: "OpenChat"},
	{ID: "qwen/qwen-2-7b-instruct:free", Name: "Qwen 2 7B Instruct (Free)", Provider: "Alibaba"},
	{ID: "microsoft/phi-3-mini-128k-instruct:free", Name: "Phi-3 Mini 128K (Free)", Provider: "Microsoft"},
	{ID: "deepseek/deepseek-r1:free", Name: "DeepSeek R1 (Free)", Provider: "DeepSeek"},
}
