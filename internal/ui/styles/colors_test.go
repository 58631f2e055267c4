// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPrimaryColorsDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Purple", Purple},
		{"Cyan", Cyan},
		{"Emerald", Emerald},
		{"Amber", Amber},
		{"Rose", Rose},
		{"CitationKnown", CitationKnown},
		{"CitationMissing", CitationMissing},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s color should define both light and dark variants", c.name)
		}
	}
}

func TestStatusIndicatorsASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
	}

	for _, ind := range indicators {
		if ind == "" {
			t.Error("status indicator should not be empty")
		}
		for _, r := range ind {
			if r > 127 {
				t.Errorf("status indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		marker string
	}{
		{"RenderSuccess", RenderSuccess, StatusIndicators.Success},
		{"RenderError", RenderError, StatusIndicators.Error},
		{"RenderWarning", RenderWarning, StatusIndicators.Warning},
		{"RenderInfo", RenderInfo, StatusIndicators.Info},
	}

	for _, tt := range tests {
		out := tt.render("hello")
		if !strings.Contains(out, "hello") {
			t.Errorf("%s output should contain the message, got %q", tt.name, out)
		}
		if !strings.Contains(out, tt.marker) {
			t.Errorf("%s output should contain the %q indicator, got %q", tt.name, tt.marker, out)
		}
	}
}
