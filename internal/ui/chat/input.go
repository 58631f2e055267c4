// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/model"
	"github.com/morganforge/riley-tui/internal/storage"
)

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput handles Enter on the input field: blank input is ignored,
// "/" commands are dispatched locally, everything else goes to the
// assistant. A submit while a request is in flight is dropped by state
// inspection alone.
func (m *Model) submitInput() tea.Cmd {
	raw := m.input.Value()
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.handleCommand(text)
	}

	if m.state == StateAwaiting {
		m.toasts.AddWarning("Still waiting on the previous reply")
		return nil
	}

	// Lazy session creation on first submit.
	active := m.sessions.Ensure(m.cfg.API.Tenant, m.cfg.API.DefaultContext, m.cfg.API.UserID)

	// Optimistic append: the user sees their message before the
	// network round trip starts, and the input clears immediately.
	m.conversation.AppendUser(text)
	m.input.Reset()
	m.state = StateAwaiting

	m.rememberSession(text)

	return tea.Batch(
		sendChatCmd(m.client, text, active.String(), m.mode),
		m.thinking.Start(),
	)
}

// rememberSession records the session in the local store for the
// sessions listing. Store failures never interrupt a submit.
func (m *Model) rememberSession(preview string) {
	if m.store == nil {
		return
	}

	active := m.sessions.Active()
	rec := &storage.SessionRecord{
		ID:         active.String(),
		Tenant:     active.TenantID,
		ContextKey: active.ContextKey,
		UserID:     active.UserID,
		Mode:       string(m.mode),
	}
	if err := m.store.Save(rec); err == nil {
		_ = m.store.Touch(active.String(), m.conversation.TurnCount(), preview)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand dispatches a "/" command typed into the input field.
func (m *Model) handleCommand(text string) tea.Cmd {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/new":
		return m.startNewConversation()

	case "/clear":
		return m.clearContext()

	case "/mode":
		if len(args) > 0 {
			m.setMode(api.ParseMode(strings.ToLower(args[0])))
		} else {
			m.toggleMode()
		}
		return nil

	case "/sessions":
		m.showSessionList()
		return nil

	case "/sync":
		m.toasts.AddStatus("Syncing vault assets...")
		return syncAssetsCmd(m.vault, m.client, m.events)

	case "/help":
		m.showHelp = !m.showHelp
		return nil

	case "/quit", "/exit":
		return tea.Quit

	default:
		m.toasts.AddWarning("Unknown command " + cmd + " (try /help)")
		return nil
	}
}

// startNewConversation abandons the current session identity and resets
// the transcript. The old session's remote context stays intact; /clear
// is the destructive variant.
func (m *Model) startNewConversation() tea.Cmd {
	m.sessions.Reset()
	m.historyGen++
	m.conversation.Clear()
	m.conversation.Initialize(defaultGreeting)
	m.stopReveal()
	m.state = StateIdle
	m.thinking.Stop()
	m.toasts.AddStatus("Started a new conversation")
	return nil
}

// clearContext wipes the transcript and asks the backend to forget the
// session's context.
func (m *Model) clearContext() tea.Cmd {
	active := m.sessions.Active()

	m.historyGen++
	m.conversation.Clear()
	m.conversation.Initialize(defaultGreeting)
	m.stopReveal()
	m.state = StateIdle
	m.thinking.Stop()

	if active.IsZero() {
		return nil
	}

	m.sessions.Reset()
	return clearSessionCmd(m.client, active.String())
}

func (m *Model) setMode(mode api.Mode) {
	m.mode = mode
	m.toasts.AddStatus("Mode set to " + string(mode))
	if m.prefs != nil {
		_ = m.prefs.Set(prefMode, string(mode))
	}
}

func (m *Model) toggleMode() {
	if m.mode == api.ModeFast {
		m.setMode(api.ModeDeep)
	} else {
		m.setMode(api.ModeFast)
	}
}

// showSessionList surfaces recent sessions as a system turn. The full
// management surface lives in the `riley sessions` CLI command.
func (m *Model) showSessionList() {
	if m.store == nil {
		m.toasts.AddWarning("Session store unavailable")
		return
	}

	recs, err := m.store.List()
	if err != nil || len(recs) == 0 {
		m.toasts.AddStatus("No saved sessions yet")
		return
	}

	if len(recs) > 10 {
		recs = recs[:10]
	}
	m.conversation.AppendSystem("Recent sessions:\n" + storage.FormatSessionList(recs))
}

// =============================================================================
// REVEAL CONTROL
// =============================================================================

// startReveal begins revealing an assistant turn's text. Only the
// newest assistant turn animates; everything older shows in full.
func (m *Model) startReveal(turn *model.Turn) tea.Cmd {
	if !m.cfg.Reveal.Enabled {
		return nil
	}

	m.revealTurnID = turn.ID
	m.revealer.Start(turn.Content)
	return m.revealer.TickCmd()
}

// stopReveal finalizes any in-progress reveal. Pending ticks carry a
// stale generation and will be discarded.
func (m *Model) stopReveal() {
	m.revealTurnID = ""
	m.revealer.ShowAll("")
}

// skipReveal shows the revealing turn's full text immediately.
func (m *Model) skipReveal() {
	if m.revealTurnID == "" {
		return
	}
	if turn := m.conversation.TurnByID(m.revealTurnID); turn != nil {
		m.revealer.ShowAll(turn.Content)
	}
	m.revealTurnID = ""
}
