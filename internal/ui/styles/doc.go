// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the riley TUI.

This package defines the color palette, the Theme of composed Lip Gloss
styles, and the ASCII animation primitives used throughout the
application. All colors use lipgloss.AdaptiveColor so they resolve
correctly on both light and dark terminals.

# Color System (colors.go)

Primary accent colors:

  - Purple - Primary accent for the assistant and selections
  - Cyan - Brand color for prompts and user highlights
  - Emerald - Success states and the fast assistant mode
  - Amber - Warnings and the deep assistant mode
  - Rose - Errors

Semantic tokens cover the transcript bubbles (user, assistant, system)
and the two citation states:

	CitationKnown   - the referenced asset resolves in the vault
	CitationMissing - the reference does not resolve yet

# Theme (theme.go)

Theme bundles every composed style the views need. Construct one with
NewTheme, which probes the terminal via termenv, then feed terminal
resizes through SetSize. GetLayoutMode maps the current width onto
three responsive layouts:

	LayoutNarrow - under 60 columns
	LayoutMedium - 60 to 99 columns
	LayoutWide   - 100 columns and up

# Animations (animations.go)

Spinner frame sets, the progress bar renderer, and tree connectors are
all ASCII-only so they degrade gracefully on limited terminals.

Usage:

	theme := styles.NewTheme()
	theme.SetSize(width, height)
	header := theme.Header.Render("riley")
*/
package styles
