// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/riley-tui/internal/citation"
	"github.com/morganforge/riley-tui/internal/model"
	"github.com/morganforge/riley-tui/internal/ui/styles"
	"github.com/morganforge/riley-tui/internal/util"
)

// =============================================================================
// TURN BUBBLE COMPONENT
// =============================================================================

// TurnBubble renders a single transcript turn as a styled bubble.
type TurnBubble struct {
	Turn          *model.Turn
	Width         int
	ShowTimestamp bool
	Revealing     bool

	// ContentOverride replaces the turn content when set, so the chat
	// view can show the partially revealed text of the newest reply.
	ContentOverride string

	// Lookup resolves citation names for assistant turns. Nil disables
	// citation styling and markers render as plain text.
	Lookup citation.Index

	theme *styles.Theme
}

// NewTurnBubble creates a bubble for a turn.
func NewTurnBubble(turn *model.Turn, theme *styles.Theme) *TurnBubble {
	if turn == nil {
		turn = model.NewSystemTurn("")
	}
	return &TurnBubble{
		Turn:          turn,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *TurnBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble.
func (b *TurnBubble) View() string {
	switch b.Turn.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	default:
		return b.renderSystemBubble()
	}
}

func (b *TurnBubble) content() string {
	if b.Revealing || b.ContentOverride != "" {
		return b.ContentOverride
	}
	return b.Turn.Content
}

// ==========================================================================
// USER BUBBLE - right-aligned
// ==========================================================================

func (b *TurnBubble) renderUserBubble() string {
	content := b.content()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth)

	bubble := bubbleStyle.Render(wrappedContent)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render("you")

	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(
		lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// ASSISTANT BUBBLE - left-aligned, citation-aware
// ==========================================================================

func (b *TurnBubble) renderAssistantBubble() string {
	content := b.content()

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	var wrappedContent string
	if b.Revealing {
		// A partial prefix can hold an unterminated fence; render it as
		// plain text until the reply is fully revealed.
		wrappedContent = wordWrap(b.renderCitations(content)+b.renderRevealCursor(), maxContentWidth)
	} else {
		wrappedContent = b.renderAssistantContent(content, maxContentWidth)
	}
	if wrappedContent == "" {
		wrappedContent = "..."
	}

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.AssistantBubbleFg).
		Background(styles.AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.AssistantBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4)

	bubble := bubbleStyle.Render(wrappedContent)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render("riley")

	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	result := lipgloss.JoinVertical(lipgloss.Left, header, bubble)

	if !b.Revealing && b.Turn.SourcesCount > 0 {
		sourceStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			PaddingLeft(2)
		label := "source"
		if b.Turn.SourcesCount > 1 {
			label = "sources"
		}
		sourceLine := sourceStyle.Render(
			strconv.Itoa(b.Turn.SourcesCount) + " vault " + label + " consulted")
		result = lipgloss.JoinVertical(lipgloss.Left, result, sourceLine)
	}

	return result
}

// renderAssistantContent styles citations in prose and renders fenced
// code blocks with syntax highlighting. Only the prose is word-wrapped;
// highlighted lines carry escape sequences that wrapping would tear.
func (b *TurnBubble) renderAssistantContent(content string, maxWidth int) string {
	if !strings.Contains(content, "```") {
		return wordWrap(b.renderCitations(content), maxWidth)
	}

	var parts []string
	for _, seg := range splitFenced(content) {
		if seg.Code {
			cb := NewCodeBlock(seg.Language, seg.Text)
			cb.SetMaxWidth(maxWidth)
			parts = append(parts, cb.Render())
			continue
		}
		parts = append(parts, wordWrap(b.renderCitations(seg.Text), maxWidth))
	}
	return strings.Join(parts, "\n")
}

// renderCitations styles [[Source: name]] markers in assistant text.
// Known assets render underlined, unknown ones dimmed italic, so the
// user can see at a glance which references resolve in their vault.
func (b *TurnBubble) renderCitations(text string) string {
	if b.Lookup == nil {
		return text
	}

	segments := citation.Parse(text)
	var sb strings.Builder

	knownStyle := lipgloss.NewStyle().
		Foreground(styles.CitationKnown).
		Underline(true)
	missingStyle := lipgloss.NewStyle().
		Foreground(styles.CitationMissing).
		Italic(true)

	for _, seg := range segments {
		if seg.Kind != citation.KindCitation {
			sb.WriteString(seg.Text)
			continue
		}
		if _, ok := b.Lookup.LookupByName(seg.Name); ok {
			sb.WriteString(knownStyle.Render("[" + seg.Name + "]"))
		} else {
			sb.WriteString(missingStyle.Render("[" + seg.Name + "?]"))
		}
	}

	return sb.String()
}

// ==========================================================================
// SYSTEM BUBBLE - centered
// ==========================================================================

func (b *TurnBubble) renderSystemBubble() string {
	content := b.content()
	if content == "" {
		content = "System notice"
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrappedContent := wordWrap(content, maxContentWidth)

	contentWidth := minInt(maxLineWidth(wrappedContent)+4, b.Width-16)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.SystemBubbleFg).
		Background(styles.SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.SystemBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Align(lipgloss.Center)

	bubble := bubbleStyle.Render(wrappedContent)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := labelStyle.Render("system")

	if ts := b.renderTimestamp(); ts != "" {
		header += " " + ts
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		centerStyle.Render(header),
		centerStyle.Render(bubble),
	)
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

func (b *TurnBubble) renderTimestamp() string {
	if !b.ShowTimestamp {
		return ""
	}

	ts := b.Turn.Timestamp
	if ts.IsZero() {
		return ""
	}

	timestampStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	now := time.Now()
	var formatted string
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("3:04 PM")
	} else {
		formatted = ts.Format("Jan 2, 3:04 PM")
	}

	return timestampStyle.Render(formatted)
}

func (b *TurnBubble) renderRevealCursor() string {
	return lipgloss.NewStyle().
		Foreground(styles.Purple).
		Blink(true).
		Render("_")
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within the specified width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for lineIdx, line := range lines {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if util.RuneLen(currentLine)+1+util.RuneLen(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}

		result.WriteString(currentLine)
	}

	return result.String()
}

// maxLineWidth returns the rune width of the longest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.RuneLen(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// =============================================================================
// TRANSCRIPT LIST COMPONENT
// =============================================================================

// TranscriptList renders a whole conversation as stacked bubbles.
type TranscriptList struct {
	Turns          []*model.Turn
	Width          int
	ShowTimestamps bool

	// Lookup resolves citations for assistant turns.
	Lookup citation.Index

	// RevealTurnID marks the turn whose text is still being revealed;
	// its content is replaced with RevealText.
	RevealTurnID string
	RevealText   string

	theme *styles.Theme
}

// NewTranscriptList creates a new transcript list.
func NewTranscriptList(theme *styles.Theme) *TranscriptList {
	return &TranscriptList{
		Width:          80,
		ShowTimestamps: true,
		theme:          theme,
	}
}

// SetTurns sets the turns to display.
func (tl *TranscriptList) SetTurns(turns []*model.Turn) {
	tl.Turns = turns
}

// SetWidth sets the list width.
func (tl *TranscriptList) SetWidth(width int) {
	tl.Width = width
}

// View renders all turns.
func (tl *TranscriptList) View() string {
	if len(tl.Turns) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(tl.Width).
			Align(lipgloss.Center).
			Padding(2, 0)

		return emptyStyle.Render("No messages yet. Ask riley anything!")
	}

	var bubbles []string
	for _, turn := range tl.Turns {
		bubble := NewTurnBubble(turn, tl.theme)
		bubble.SetWidth(tl.Width)
		bubble.ShowTimestamp = tl.ShowTimestamps
		bubble.Lookup = tl.Lookup

		if tl.RevealTurnID != "" && turn.ID == tl.RevealTurnID {
			bubble.ContentOverride = tl.RevealText
			bubble.Revealing = true
		}

		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n")
}
