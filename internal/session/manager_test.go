// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// IDENTITY TESTS
// =============================================================================

func TestNew_CompositeFormat(t *testing.T) {
	id := New("alderaan", "strategy", "user-42")
	s := id.String()

	if !strings.HasPrefix(s, "riley_alderaan_strategy_user-42_") {
		t.Errorf("unexpected identifier: %s", s)
	}
	if id.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestNew_Fallbacks(t *testing.T) {
	tests := []struct {
		name       string
		tenant     string
		contextKey string
		user       string
		wantPrefix string
	}{
		{"all empty", "", "", "", "riley_global_anonymous_"},
		{"missing tenant", "", "research", "u1", "riley_global_research_u1_"},
		{"missing user", "alderaan", "", "", "riley_alderaan_anonymous_"},
		{"context omitted", "alderaan", "", "u1", "riley_alderaan_u1_"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := New(tc.tenant, tc.contextKey, tc.user)
			if s := id.String(); !strings.HasPrefix(s, tc.wantPrefix) {
				t.Errorf("String() = %q, want prefix %q", s, tc.wantPrefix)
			}
		})
	}
}

func TestNew_NeverCollidesForSameCaller(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		s := New("alderaan", "strategy", "u1").String()
		if seen[s] {
			t.Fatalf("colliding identifier: %s", s)
		}
		seen[s] = true
	}
}

func TestNew_DifferentUsersNeverCollide(t *testing.T) {
	// Even if the millisecond component were identical, the user
	// component keeps the identifiers distinct.
	a := New("alderaan", "strategy", "user-a")
	b := New("alderaan", "strategy", "user-b")
	if a.String() == b.String() {
		t.Errorf("identifiers collide across users: %s", a.String())
	}
}

func TestNew_ConcurrentCallsUnique(t *testing.T) {
	const n = 100
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = New("alderaan", "", "u1").String()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, s := range ids {
		if seen[s] {
			t.Fatalf("concurrent collision: %s", s)
		}
		seen[s] = true
	}
}

func TestIdentity_IsZero(t *testing.T) {
	var zero Identity
	if !zero.IsZero() {
		t.Error("zero Identity should report IsZero")
	}
	if New("", "", "").IsZero() {
		t.Error("created Identity should not report IsZero")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		tenant     string
		contextKey string
		user       string
	}{
		{"full scope", "alderaan", "strategy", "user-42"},
		{"no context", "alderaan", "", "user-42"},
		{"defaults", "", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id := New(tc.tenant, tc.contextKey, tc.user)
			got, err := Parse(id.String())
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", id.String(), err)
			}
			if got.TenantID != id.TenantID || got.ContextKey != id.ContextKey || got.UserID != id.UserID {
				t.Errorf("Parse = %+v, want %+v", got, id)
			}
			if got.CreatedAt.UnixMilli() != id.CreatedAt.UnixMilli() {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, id.CreatedAt)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, s := range []string{"", "sess_20240101", "riley_only", "riley_a_b_notmillis"} {
		if _, err := Parse(s); !errors.Is(err, ErrBadIdentity) {
			t.Errorf("Parse(%q) = %v, want ErrBadIdentity", s, err)
		}
	}
}

// =============================================================================
// MANAGER TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.AutoSaveEnabled {
		t.Error("Default AutoSaveEnabled should be true")
	}
	if cfg.AutoSaveInterval != 30*time.Second {
		t.Errorf("Default AutoSaveInterval = %v, want 30s", cfg.AutoSaveInterval)
	}
}

func TestManager_EnsureIsLazyAndStable(t *testing.T) {
	m := NewManager(DefaultConfig())

	if !m.Active().IsZero() {
		t.Fatal("new manager should have no active identity")
	}
	if m.ActiveID() != "" {
		t.Fatal("ActiveID on empty manager should be empty")
	}

	first := m.Ensure("alderaan", "strategy", "u1")
	second := m.Ensure("other-tenant", "other", "u2")
	if first.String() != second.String() {
		t.Errorf("Ensure minted a second identity while one was active")
	}
	if m.ActiveID() != first.String() {
		t.Errorf("ActiveID = %q, want %q", m.ActiveID(), first.String())
	}
}

func TestManager_ResetMintsFresh(t *testing.T) {
	m := NewManager(DefaultConfig())
	first := m.Ensure("alderaan", "", "u1")
	m.Reset()

	if !m.Active().IsZero() {
		t.Fatal("Reset should drop the active identity")
	}
	second := m.Ensure("alderaan", "", "u1")
	if first.String() == second.String() {
		t.Errorf("identity reused after Reset: %s", first.String())
	}
}

func TestManager_SetActive(t *testing.T) {
	m := NewManager(DefaultConfig())
	id := New("alderaan", "research", "u1")
	m.SetActive(id)

	if m.ActiveID() != id.String() {
		t.Errorf("ActiveID = %q, want %q", m.ActiveID(), id.String())
	}
	if !m.IsDirty() {
		t.Error("SetActive should mark manager dirty")
	}
}

func TestManager_AutoSave(t *testing.T) {
	cfg := Config{AutoSaveEnabled: true, AutoSaveInterval: time.Millisecond}
	m := NewManager(cfg)
	m.Ensure("alderaan", "", "u1")

	saved := 0
	m.SetAutoSaveCallback(func() error {
		saved++
		return nil
	})

	time.Sleep(5 * time.Millisecond)
	if !m.ShouldAutoSave() {
		t.Fatal("auto-save should be due")
	}
	m.Check()

	if saved != 1 {
		t.Errorf("saved = %d, want 1", saved)
	}
	if m.IsDirty() {
		t.Error("manager should be clean after successful auto-save")
	}
}

func TestManager_AutoSaveDisabled(t *testing.T) {
	m := NewManager(Config{AutoSaveEnabled: false, AutoSaveInterval: time.Millisecond})
	m.Ensure("alderaan", "", "u1")
	time.Sleep(5 * time.Millisecond)
	if m.ShouldAutoSave() {
		t.Error("auto-save should never be due when disabled")
	}
}

func TestManager_RecordActivity(t *testing.T) {
	m := NewManager(DefaultConfig())
	time.Sleep(2 * time.Millisecond)
	if m.IdleTime() <= 0 {
		t.Error("IdleTime should advance")
	}
	m.RecordActivity()
	if m.IdleTime() > time.Second {
		t.Error("IdleTime should reset after RecordActivity")
	}
}
