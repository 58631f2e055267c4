// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal implements the typewriter display of assistant replies.
//
// A reply arrives as one complete blob; the revealer replays it to the
// screen a chunk at a time on a fixed tick so long answers read as if
// they were being typed. Only the most recent assistant turn animates;
// every other turn displays in full immediately.
package reveal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Defaults tuned for terminal rendering: ~30fps ticks, a few characters
// per tick so a paragraph lands in about a second.
const (
	DefaultInterval = 33 * time.Millisecond
	DefaultChunk    = 3
)

// =============================================================================
// REVEALER
// =============================================================================

// Revealer owns the visible prefix of one assistant reply. It is driven
// by the UI event loop; a generation counter ties each tick to the reveal
// that scheduled it, so ticks from a superseded reveal are discarded
// instead of corrupting the new prefix.
type Revealer struct {
	full    []rune
	visible int

	generation int
	running    bool

	// Configuration
	wordMode bool
	chunk    int
	interval time.Duration
}

// New creates a revealer with default pacing.
func New() *Revealer {
	return &Revealer{
		chunk:    DefaultChunk,
		interval: DefaultInterval,
	}
}

// NewWithConfig creates a revealer with custom pacing. wordMode reveals
// whitespace-delimited words per tick instead of characters.
func NewWithConfig(wordMode bool, chunk int, interval time.Duration) *Revealer {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Revealer{
		wordMode: wordMode,
		chunk:    chunk,
		interval: interval,
	}
}

// Start begins revealing fullText from an empty prefix. Any in-progress
// reveal is superseded: its pending ticks carry the old generation and
// will be ignored.
func (r *Revealer) Start(fullText string) {
	r.full = []rune(fullText)
	r.visible = 0
	r.generation++
	r.running = len(r.full) > 0
}

// ShowAll displays the full text immediately, bypassing the timer.
// Used for every turn except the single most recent assistant turn.
func (r *Revealer) ShowAll(fullText string) {
	r.full = []rune(fullText)
	r.visible = len(r.full)
	r.generation++
	r.running = false
}

// Advance moves the visible prefix forward by one chunk. It accepts the
// generation the tick was scheduled with and reports whether the tick was
// current; stale ticks are no-ops. Advancing at or past the end is
// idempotent.
func (r *Revealer) Advance(generation int) bool {
	if generation != r.generation || !r.running {
		return false
	}

	if r.wordMode {
		r.visible = r.advanceWords(r.visible, r.chunk)
	} else {
		r.visible += r.chunk
	}
	if r.visible >= len(r.full) {
		r.visible = len(r.full)
		r.running = false
	}
	return true
}

// advanceWords returns the rune offset after advancing n whitespace
// delimited words from offset.
func (r *Revealer) advanceWords(offset, n int) int {
	i := offset
	for w := 0; w < n && i < len(r.full); w++ {
		for i < len(r.full) && isSpace(r.full[i]) {
			i++
		}
		for i < len(r.full) && !isSpace(r.full[i]) {
			i++
		}
	}
	return i
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Visible returns the currently revealed prefix.
func (r *Revealer) Visible() string {
	return string(r.full[:r.visible])
}

// Done reports whether the full text is visible.
func (r *Revealer) Done() bool {
	return r.visible >= len(r.full)
}

// Running reports whether an animated reveal is in progress.
func (r *Revealer) Running() bool {
	return r.running
}

// Generation returns the current reveal generation, for scheduling ticks.
func (r *Revealer) Generation() int {
	return r.generation
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg drives one Advance step. Generation identifies the reveal that
// scheduled this tick.
type TickMsg struct {
	Generation int
	Time       time.Time
}

// TickCmd schedules the next reveal tick for the given generation.
func (r *Revealer) TickCmd() tea.Cmd {
	generation := r.generation
	return tea.Tick(r.interval, func(t time.Time) tea.Msg {
		return TickMsg{Generation: generation, Time: t}
	})
}
