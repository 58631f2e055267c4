// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/ui/components"
	"github.com/morganforge/riley-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT
// =============================================================================

// setSize distributes a terminal resize across the layout regions.
func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.welcome.SetSize(width, height)

	// Fixed rows: header (1), input area (3), status bar (1).
	transcriptHeight := height - 5
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	m.viewport.Width = width
	m.viewport.Height = transcriptHeight
	m.input.Width = width - 6

	m.refreshTranscript()
}

// syncViewport re-renders the transcript and keeps the newest turn in
// view.
func (m *Model) syncViewport() tea.Cmd {
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return nil
}

// refreshTranscript rebuilds the viewport content from the
// conversation.
func (m *Model) refreshTranscript() {
	width := m.width
	if width == 0 {
		width = 80
	}

	list := components.NewTranscriptList(m.theme)
	list.SetWidth(width - 2)
	list.SetTurns(m.conversation.Turns)
	list.Lookup = m.lookup()

	if m.revealTurnID != "" && !m.revealer.Done() {
		list.RevealTurnID = m.revealTurnID
		list.RevealText = m.revealer.Visible()
	}

	m.viewport.SetContent(list.View())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if m.state == StateWelcome {
		return m.welcome.View()
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	height := m.height
	if height == 0 {
		height = 24
	}

	sections := []string{
		m.renderHeader(width),
		m.viewport.View(),
		m.renderInputArea(width),
		m.renderStatusBar(width),
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.showHelp {
		return m.renderHelpOverlay(width, height)
	}

	if m.toasts.HasToasts() {
		return screen + "\n" + m.renderToastLine(width)
	}

	return screen
}

// renderHeader renders the one-line title bar.
func (m Model) renderHeader(width int) string {
	title := m.theme.HeaderBrand.Render("riley")
	tenant := m.theme.TenantBadge.Render(m.cfg.API.Tenant)

	left := title + " " + m.theme.HeaderSubtitle.Render("campaign assistant")
	right := tenant

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return m.theme.StatusBar.Width(width).Render(
		left + strings.Repeat(" ", gap) + right)
}

// renderInputArea renders the prompt and text input with the thinking
// indicator above it while a request is in flight.
func (m Model) renderInputArea(width int) string {
	var lines []string

	if m.state == StateAwaiting {
		lines = append(lines, m.thinking.View())
	} else {
		lines = append(lines, "")
	}

	prompt := m.theme.InputPrompt.Render("> ")
	lines = append(lines, m.theme.InputContainer.Width(width-2).Render(prompt+m.input.View()))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderStatusBar renders mode, session, and shortcut hints.
func (m Model) renderStatusBar(width int) string {
	var modeBadge string
	if m.mode == api.ModeDeep {
		modeBadge = m.theme.ModeDeep.Render("deep")
	} else {
		modeBadge = m.theme.ModeFast.Render("fast")
	}

	sessionPart := "no session"
	if active := m.sessions.Active(); !active.IsZero() {
		sessionPart = active.TenantID
		if active.ContextKey != "" {
			sessionPart += "/" + active.ContextKey
		}
	}

	left := modeBadge + "  " + m.theme.ShortcutDesc.Render(sessionPart)

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+
				m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	right := strings.Join(hints, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
		if m.theme.GetLayoutMode() == styles.LayoutNarrow {
			right = ""
			gap = width - lipgloss.Width(left) - 2
			if gap < 1 {
				gap = 1
			}
		}
	}

	return m.theme.StatusBar.Width(width).Render(
		left + strings.Repeat(" ", gap) + right)
}

// renderToastLine renders active toasts under the status bar.
func (m Model) renderToastLine(width int) string {
	toasts := m.toasts.GetToasts()
	if len(toasts) == 0 {
		return ""
	}
	// Only the newest toast gets the single spare line.
	return components.RenderToast(toasts[0], width)
}

// renderHelpOverlay renders the full-screen shortcut help.
func (m Model) renderHelpOverlay(width, height int) string {
	content := components.KeyboardShortcuts()

	slash := m.theme.ShortcutDesc.Render(
		"Slash commands: /new /clear /mode [fast|deep] /sessions /sync /help /quit")

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 3).
		Render(content + "\n\n" + slash)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
