// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"strings"
	"testing"
	"time"
)

func drain(r *Revealer) int {
	ticks := 0
	for r.Running() {
		r.Advance(r.Generation())
		ticks++
		if ticks > 100000 {
			break
		}
	}
	return ticks
}

func TestRevealer_CharacterMode(t *testing.T) {
	r := NewWithConfig(false, 3, time.Millisecond)
	r.Start("hello world")

	if r.Visible() != "" {
		t.Errorf("initial visible = %q, want empty", r.Visible())
	}
	r.Advance(r.Generation())
	if r.Visible() != "hel" {
		t.Errorf("after one tick visible = %q, want %q", r.Visible(), "hel")
	}

	drain(r)
	if r.Visible() != "hello world" {
		t.Errorf("final visible = %q", r.Visible())
	}
	if !r.Done() {
		t.Error("revealer should be done")
	}
}

func TestRevealer_WordMode(t *testing.T) {
	r := NewWithConfig(true, 2, time.Millisecond)
	r.Start("the northern pass is held")

	r.Advance(r.Generation())
	if got := r.Visible(); got != "the northern" {
		t.Errorf("after one tick visible = %q, want %q", got, "the northern")
	}

	drain(r)
	if r.Visible() != "the northern pass is held" {
		t.Errorf("final visible = %q", r.Visible())
	}
}

func TestRevealer_PrefixProperty(t *testing.T) {
	full := "Riley found three references in your vault. [[Source: treaty.md]]"
	r := NewWithConfig(false, 4, time.Millisecond)
	r.Start(full)

	for r.Running() {
		r.Advance(r.Generation())
		if !strings.HasPrefix(full, r.Visible()) {
			t.Fatalf("visible %q is not a prefix of full text", r.Visible())
		}
	}
}

func TestRevealer_MultibyteSafe(t *testing.T) {
	full := "日本語のテキストです"
	r := NewWithConfig(false, 2, time.Millisecond)
	r.Start(full)

	r.Advance(r.Generation())
	if got := r.Visible(); got != "日本" {
		t.Errorf("visible = %q, want %q", got, "日本")
	}
	drain(r)
	if r.Visible() != full {
		t.Errorf("final visible = %q", r.Visible())
	}
}

func TestRevealer_AdvanceIdempotentAtCompletion(t *testing.T) {
	r := NewWithConfig(false, 100, time.Millisecond)
	r.Start("short")
	r.Advance(r.Generation())

	if !r.Done() {
		t.Fatal("should be done after one oversized tick")
	}
	gen := r.Generation()
	for i := 0; i < 5; i++ {
		r.Advance(gen)
	}
	if r.Visible() != "short" {
		t.Errorf("visible changed after completion: %q", r.Visible())
	}
}

func TestRevealer_SupersessionDiscardsStaleTicks(t *testing.T) {
	r := NewWithConfig(false, 2, time.Millisecond)
	r.Start("first reply text")
	staleGen := r.Generation()
	r.Advance(staleGen)

	// A new turn supersedes the in-progress reveal.
	r.Start("second")

	// Pending ticks from the first reveal must be no-ops.
	if r.Advance(staleGen) {
		t.Error("stale-generation tick was applied")
	}
	if r.Visible() != "" {
		t.Errorf("visible = %q after stale tick, want empty", r.Visible())
	}

	drain(r)
	if r.Visible() != "second" {
		t.Errorf("final visible = %q, want %q", r.Visible(), "second")
	}
}

func TestRevealer_ShowAll(t *testing.T) {
	r := New()
	r.ShowAll("instant display")

	if r.Visible() != "instant display" {
		t.Errorf("visible = %q", r.Visible())
	}
	if r.Running() {
		t.Error("ShowAll should not start the timer")
	}
	if !r.Done() {
		t.Error("ShowAll should complete immediately")
	}
}

func TestRevealer_ShowAllSupersedesRunningReveal(t *testing.T) {
	r := NewWithConfig(false, 1, time.Millisecond)
	r.Start("animated text")
	staleGen := r.Generation()

	r.ShowAll("full text")
	if r.Advance(staleGen) {
		t.Error("stale tick applied after ShowAll")
	}
	if r.Visible() != "full text" {
		t.Errorf("visible = %q", r.Visible())
	}
}

func TestRevealer_EmptyText(t *testing.T) {
	r := New()
	r.Start("")
	if r.Running() {
		t.Error("empty text should not run")
	}
	if !r.Done() {
		t.Error("empty text is trivially done")
	}
}

func TestRevealer_DefaultsApplied(t *testing.T) {
	r := NewWithConfig(false, 0, 0)
	if r.chunk != DefaultChunk {
		t.Errorf("chunk = %d, want %d", r.chunk, DefaultChunk)
	}
	if r.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", r.interval, DefaultInterval)
	}
}
