// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestToastConstructors(t *testing.T) {
	tests := []struct {
		name     string
		toast    Toast
		kind     ToastKind
		duration time.Duration
	}{
		{"error", NewErrorToast("boom"), ToastKindError, ErrorToastDuration},
		{"warning", NewWarningToast("careful"), ToastKindWarning, WarningToastDuration},
		{"status", NewStatusToast("fyi"), ToastKindStatus, DefaultToastDuration},
		{"success", NewSuccessToast("done"), ToastKindSuccess, DefaultToastDuration},
	}

	for _, tt := range tests {
		if tt.toast.Kind != tt.kind {
			t.Errorf("%s: Kind = %v, want %v", tt.name, tt.toast.Kind, tt.kind)
		}
		if tt.toast.Duration != tt.duration {
			t.Errorf("%s: Duration = %v, want %v", tt.name, tt.toast.Duration, tt.duration)
		}
		if !tt.toast.Dismissible {
			t.Errorf("%s: toast should be dismissible", tt.name)
		}
	}
}

func TestToastExpiry(t *testing.T) {
	toast := NewStatusToast("short lived")
	if toast.IsExpired() {
		t.Error("fresh toast should not be expired")
	}

	toast.CreatedAt = time.Now().Add(-DefaultToastDuration - time.Second)
	if !toast.IsExpired() {
		t.Error("old toast should be expired")
	}
	if toast.TimeRemaining() != 0 {
		t.Errorf("TimeRemaining() = %v, want 0", toast.TimeRemaining())
	}
}

func TestToastManagerAddAndRemove(t *testing.T) {
	m := NewToastManager()

	id := m.AddError("first")
	if !m.HasToasts() {
		t.Fatal("manager should have toasts after AddError")
	}

	m.RemoveToast(id)
	if m.HasToasts() {
		t.Error("manager should be empty after RemoveToast")
	}
}

func TestToastManagerMaxToasts(t *testing.T) {
	m := NewToastManager()

	for i := 0; i < 10; i++ {
		m.AddStatus("notice")
	}

	if got := len(m.GetToasts()); got != 5 {
		t.Errorf("toast count = %d, want 5 (max)", got)
	}
}

func TestToastManagerNewestFirst(t *testing.T) {
	m := NewToastManager()
	m.AddStatus("older")
	m.AddStatus("newer")

	toasts := m.GetToasts()
	if len(toasts) != 2 {
		t.Fatalf("toast count = %d, want 2", len(toasts))
	}
	if toasts[0].Message != "newer" {
		t.Errorf("first toast = %q, want %q", toasts[0].Message, "newer")
	}
}

func TestTickToastsDropsExpired(t *testing.T) {
	m := NewToastManager()
	m.AddStatus("keep")

	expired := NewStatusToast("drop")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	m.AddToast(expired)

	remaining := m.TickToasts()
	if len(remaining) != 1 {
		t.Fatalf("remaining toasts = %d, want 1", len(remaining))
	}
	if remaining[0].Message != "keep" {
		t.Errorf("remaining toast = %q, want %q", remaining[0].Message, "keep")
	}
}

func TestRenderToastContainsMessage(t *testing.T) {
	toast := NewErrorToast("connection refused")
	out := RenderToast(toast, 80)

	if !strings.Contains(out, "connection refused") {
		t.Errorf("rendered toast should contain the message, got %q", out)
	}
}

func TestRenderToastStackEmpty(t *testing.T) {
	if out := RenderToastStack(nil, 80, 24); out != "" {
		t.Errorf("empty stack should render nothing, got %q", out)
	}
}

func TestWrapToastText(t *testing.T) {
	out := wrapToastText("one two three four five", 9)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds wrap width", line)
		}
	}
}
