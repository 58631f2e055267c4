// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks the active session identity for one running client.
// The identity is created lazily on first use (first submit of a brand-new
// conversation) and replaced wholesale on session switch or context clear.
type Manager struct {
	mu sync.Mutex

	active       Identity
	lastActivity time.Time

	// Auto-save of the active-session pointer to the state store.
	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool

	onAutoSave func() error
}

// Config holds configuration for the session manager.
type Config struct {
	// AutoSaveEnabled enables periodic persistence of the active session.
	AutoSaveEnabled bool

	// AutoSaveInterval is how often to persist (default: 30 seconds).
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a session manager with no active identity.
func NewManager(cfg Config) *Manager {
	now := time.Now()
	return &Manager{
		lastActivity:     now,
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     now,
	}
}

// =============================================================================
// ACTIVE IDENTITY
// =============================================================================

// Ensure returns the active identity, creating one for the given scope
// if none exists yet. This is the lazy-creation path used on first submit.
func (m *Manager) Ensure(tenantID, contextKey, userID string) Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active.IsZero() {
		m.active = New(tenantID, contextKey, userID)
		m.isDirty = true
	}
	return m.active
}

// Active returns the current identity; it may be zero if no turn has been
// submitted yet.
func (m *Manager) Active() Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// ActiveID returns the composite identifier of the active session, or ""
// if none exists.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active.IsZero() {
		return ""
	}
	return m.active.String()
}

// SetActive switches to an existing session, e.g. from the sessions list.
func (m *Manager) SetActive(id Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = id
	m.isDirty = true
	m.lastActivity = time.Now()
}

// Reset drops the active identity. The next Ensure mints a fresh one.
// Called on "new conversation" and after a context clear.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = Identity{}
	m.isDirty = true
	m.lastActivity = time.Now()
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// RecordActivity updates the last activity timestamp.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
}

// IdleTime returns how long since last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// MarkClean indicates the active-session pointer has been persisted.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastAutoSave = time.Now()
}

// IsDirty returns whether the active-session pointer changed since the
// last persist.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// SetAutoSaveCallback sets the function called to persist session state.
func (m *Manager) SetAutoSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoSave = fn
}

// ShouldAutoSave returns true if a persist is due.
func (m *Manager) ShouldAutoSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.autoSaveEnabled || !m.isDirty {
		return false
	}
	return time.Since(m.lastAutoSave) >= m.autoSaveInterval
}

// Check runs any due auto-save. Callbacks execute outside the lock.
func (m *Manager) Check() {
	m.mu.Lock()
	due := m.autoSaveEnabled && m.isDirty &&
		time.Since(m.lastAutoSave) >= m.autoSaveInterval
	onAutoSave := m.onAutoSave
	m.mu.Unlock()

	if due && onAutoSave != nil {
		if err := onAutoSave(); err == nil {
			m.MarkClean()
		}
	}
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to drive auto-save checks.
type TickMsg struct {
	Time time.Time
}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick processes a tick and schedules the next one.
func (m *Manager) HandleTick() tea.Cmd {
	m.Check()
	return TickCmd()
}
