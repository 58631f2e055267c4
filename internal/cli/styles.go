// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for riley CLI commands.
//
// Color handling:
// - Colors are automatically disabled for non-TTY output (piped, redirected)
// - Respects NO_COLOR environment variable (https://no-color.org/)
// - Supports FORCE_COLOR environment variable to override detection
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/riley-tui/internal/ui/styles"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan).
			MarginBottom(1)

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	// LabelStyle is used for field labels (left-aligned prompts)
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(18)

	// ValueStyle is used for field values next to labels
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// PromptStyle is used for interactive prompts
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	// SuccessStyle marks completed operations
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// WarnStyle marks recoverable problems
	WarnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// ErrStyle marks failures
	ErrStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	// DimStyle is used for secondary text (hints, timestamps)
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// CitationStyle marks vault source names in responses
	CitationStyle = lipgloss.NewStyle().
			Foreground(styles.CitationKnown).
			Underline(true)
)

// printKV prints an aligned "Label: value" row.
func printKV(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}
