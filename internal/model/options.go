// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// GenerationOptions are the resolved parameters for one completion request.
type GenerationOptions struct {
	Model        string
	SystemPrompt string
	Temperature  float64
}

// ResolveGeneration resolves generation parameters with explicit precedence:
//
//	model:        persona.Model, else settings.SelectedModel
//	systemPrompt: persona.SystemPrompt, else none
//	temperature:  persona.Temperature if set (> 0), else DefaultTemperature
//
// A nil persona resolves entirely from settings and defaults.
func ResolveGeneration(persona *Persona, settings Settings) GenerationOptions {
	opts := GenerationOptions{
		Model:       settings.SelectedModel,
		Temperature: DefaultTemperature,
	}
	if persona == nil {
		return opts
	}
	if persona.Model != "" {
		opts.Model = persona.Model
	}
	if persona.SystemPrompt != "" {
		opts.SystemPrompt = persona.SystemPrompt
	}
	if persona.Temperature > 0 {
		opts.Temperature = persona.Temperature
	}
	return opts
}
