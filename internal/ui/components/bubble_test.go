// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/morganforge/riley-tui/internal/citation"
	"github.com/morganforge/riley-tui/internal/model"
	"github.com/morganforge/riley-tui/internal/ui/styles"
)

// fakeIndex resolves a fixed set of asset names for citation tests.
type fakeIndex struct {
	known map[string]citation.Asset
}

func (f *fakeIndex) LookupByName(name string) (citation.Asset, bool) {
	a, ok := f.known[citation.NormalizeName(name)]
	return a, ok
}

func newFakeIndex(names ...string) *fakeIndex {
	f := &fakeIndex{known: make(map[string]citation.Asset)}
	for _, n := range names {
		f.known[citation.NormalizeName(n)] = citation.Asset{DisplayName: n}
	}
	return f
}

func TestTurnBubbleRendersContent(t *testing.T) {
	theme := styles.NewTheme()

	tests := []struct {
		name string
		turn *model.Turn
	}{
		{"user", model.NewUserTurn("hello there")},
		{"assistant", model.NewAssistantTurn("hi, how can I help?", 0)},
		{"system", model.NewSystemTurn("session started")},
	}

	for _, tt := range tests {
		bubble := NewTurnBubble(tt.turn, theme)
		bubble.SetWidth(80)
		out := bubble.View()
		if out == "" {
			t.Errorf("%s bubble rendered nothing", tt.name)
		}
	}
}

func TestTurnBubbleNilTurn(t *testing.T) {
	bubble := NewTurnBubble(nil, styles.NewTheme())
	bubble.SetWidth(80)
	if bubble.View() == "" {
		t.Error("nil turn should still render a system bubble")
	}
}

func TestAssistantBubbleCitations(t *testing.T) {
	theme := styles.NewTheme()
	turn := model.NewAssistantTurn(
		"See [[Source: Northern-Pass.md]] and [[Source: Ghost-File.md]] for details.", 2)

	bubble := NewTurnBubble(turn, theme)
	bubble.SetWidth(100)
	bubble.Lookup = newFakeIndex("Northern-Pass.md")

	out := bubble.View()
	if !strings.Contains(out, "Northern-Pass.md") {
		t.Error("known citation name should appear in output")
	}
	if !strings.Contains(out, "Ghost-File.md?") {
		t.Error("unknown citation should render with a question marker")
	}
	if strings.Contains(out, "[[Source:") {
		t.Error("raw citation markers should not leak into the rendered bubble")
	}
}

func TestAssistantBubbleRendersCodeBlock(t *testing.T) {
	theme := styles.NewTheme()
	turn := model.NewAssistantTurn(
		"Add this to your notes:\n```go\nrollInitiative()\n```\nThen save.", 0)

	bubble := NewTurnBubble(turn, theme)
	bubble.SetWidth(100)

	out := bubble.View()
	if strings.Contains(out, "```") {
		t.Error("fences should be consumed by the code block renderer")
	}
	if !strings.Contains(out, "rollInitiative") {
		t.Error("code content should survive highlighting")
	}
	if !strings.Contains(out, "Add this to your notes:") || !strings.Contains(out, "Then save.") {
		t.Error("prose around the code block should survive")
	}
}

func TestRevealingBubbleKeepsFenceLiteral(t *testing.T) {
	theme := styles.NewTheme()
	turn := model.NewAssistantTurn("Add this:\n```go\nrollInitiative()\n```", 0)

	bubble := NewTurnBubble(turn, theme)
	bubble.SetWidth(100)
	bubble.Revealing = true
	bubble.ContentOverride = "Add this:\n```go\nroll"

	// A half-revealed fence is rendered as plain text, not handed to the
	// highlighter mid-stream.
	if !strings.Contains(bubble.View(), "```go") {
		t.Error("partial fence should stay literal while revealing")
	}
}

func TestAssistantBubbleSourceCount(t *testing.T) {
	theme := styles.NewTheme()

	single := NewTurnBubble(model.NewAssistantTurn("answer", 1), theme)
	single.SetWidth(80)
	if !strings.Contains(single.View(), "1 vault source consulted") {
		t.Error("single source line missing")
	}

	plural := NewTurnBubble(model.NewAssistantTurn("answer", 3), theme)
	plural.SetWidth(80)
	if !strings.Contains(plural.View(), "3 vault sources consulted") {
		t.Error("plural source line missing")
	}
}

func TestTurnBubbleRevealOverride(t *testing.T) {
	theme := styles.NewTheme()
	turn := model.NewAssistantTurn("the full reply text", 0)

	bubble := NewTurnBubble(turn, theme)
	bubble.SetWidth(80)
	bubble.Revealing = true
	bubble.ContentOverride = "the full"

	out := bubble.View()
	if strings.Contains(out, "reply text") {
		t.Error("revealing bubble should only show the override prefix")
	}
	if !strings.Contains(out, "the full") {
		t.Error("revealing bubble should show the visible prefix")
	}
}

func TestTranscriptListEmpty(t *testing.T) {
	list := NewTranscriptList(styles.NewTheme())
	list.SetWidth(80)
	out := list.View()
	if !strings.Contains(out, "No messages yet") {
		t.Errorf("empty transcript should show the empty state, got %q", out)
	}
}

func TestTranscriptListRendersAllTurns(t *testing.T) {
	list := NewTranscriptList(styles.NewTheme())
	list.SetWidth(80)
	list.SetTurns([]*model.Turn{
		model.NewSystemTurn("welcome"),
		model.NewUserTurn("what happened at the northern pass?"),
		model.NewAssistantTurn("scouts reported movement", 0),
	})

	out := list.View()
	for _, want := range []string{"welcome", "northern pass", "scouts reported movement"} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	out := wordWrap("alpha beta gamma delta", 11)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 11 {
			t.Errorf("line %q exceeds wrap width", line)
		}
	}

	// Existing newlines are preserved
	if got := wordWrap("a\nb", 40); got != "a\nb" {
		t.Errorf("wordWrap preserved newlines = %q", got)
	}
}
