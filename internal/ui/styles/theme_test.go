// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemePreference(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("dark preference should force IsDark")
	}
	light := NewTheme("light")
	if light.IsDark {
		t.Error("light preference should force IsDark off")
	}
}

func TestLayoutMode(t *testing.T) {
	theme := NewTheme("dark")

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got mode %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestPersonaColorFallback(t *testing.T) {
	if string(PersonaColor("")) != DefaultPersonaColor {
		t.Error("empty color should fall back to default")
	}
	if string(PersonaColor("#ff0000")) != "#ff0000" {
		t.Error("explicit color should pass through")
	}
}
