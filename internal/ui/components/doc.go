// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the riley TUI.

Each component is built on Bubble Tea and Lip Gloss and stays consistent
with the riley design language defined in the styles package.

# Components

TurnBubble and TranscriptList (bubble.go) render conversation turns as
styled bubbles. User turns sit on the right, assistant replies on the
left, system notices centered. Assistant bubbles are citation-aware:
vault references render underlined when the referenced asset resolves
locally and dimmed when it does not, and the newest reply can show a
partially revealed prefix with a blinking cursor.

Spinner and ThinkingIndicator (spinner.go) cover the waiting state
between submitting a query and receiving the reply. All frame sets are
ASCII-only.

Toast and ToastManager (toast.go) provide non-blocking notifications
that stack in the bottom-right corner and auto-dismiss. Errors stay on
screen longer than status notices.

CodeBlock (codeblock.go) renders fenced code with chroma syntax
highlighting and line numbers.

Welcome (welcome.go) is the start screen showing the tenant, user, and
assistant mode before the first message.

Usage:

	theme := styles.NewTheme()
	list := components.NewTranscriptList(theme)
	list.SetTurns(conv.Turns)
	transcript := list.View()
*/
package components
