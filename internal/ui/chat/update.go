// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/riley-tui/internal/bus"
	"github.com/morganforge/riley-tui/internal/citation"
	"github.com/morganforge/riley-tui/internal/reveal"
	"github.com/morganforge/riley-tui/internal/session"
	"github.com/morganforge/riley-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChatResponseMsg:
		return m.handleChatResponse(msg)

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case SessionClearedMsg:
		if msg.Err != nil {
			m.toasts.AddWarning("Could not clear the remote context")
		} else if msg.SessionID != "" {
			m.toasts.AddSuccess("Context cleared")
		}
		return m, nil

	case AssetsSyncedMsg:
		if msg.Err != nil {
			m.toasts.AddError("Vault sync failed: " + msg.Err.Error())
		} else if msg.Count > 0 {
			m.toasts.AddSuccess("Vault synced")
		}
		return m, nil

	case reveal.TickMsg:
		return m.handleRevealTick(msg)

	case session.TickMsg:
		m.sessions.Check()
		return m, session.TickCmd()

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case components.ToastDismissMsg:
		m.toasts.RemoveToast(msg.ID)
		return m, nil

	case BusEventMsg:
		return m.handleBusEvent(msg)
	}

	return m.updateComponents(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Quit works everywhere.
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Any other key leaves the welcome screen.
	if m.state == StateWelcome {
		m.state = StateIdle
		if m.prefs != nil {
			_ = m.prefs.Set(prefWelcomeSeen, "1")
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		cmd := m.submitInput()
		return m, tea.Batch(cmd, components.ToastTickCmd())

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		m.toasts.Clear()
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		return m, m.startNewConversation()

	case key.Matches(msg, m.keys.ClearCtx):
		return m, m.clearContext()

	case key.Matches(msg, m.keys.ToggleMode):
		m.toggleMode()
		return m, components.ToastTickCmd()

	case key.Matches(msg, m.keys.SkipReveal):
		m.skipReveal()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	return m.updateComponents(msg)
}

// =============================================================================
// CHAT RESPONSE
// =============================================================================

func (m Model) handleChatResponse(msg ChatResponseMsg) (Model, tea.Cmd) {
	// A /new or /clear while the request was in flight retired this
	// session; the reply belongs to a conversation that no longer
	// exists on screen.
	if msg.SessionID != m.sessions.ActiveID() {
		return m, nil
	}

	m.state = StateIdle
	m.thinking.Stop()

	if msg.Err != nil {
		// Error replies are plain assistant turns; the transcript is
		// the only channel the user reliably watches.
		m.conversation.AppendAssistant(
			"Sorry, I couldn't process that: "+msg.Err.Error()+
				"\nYour message was not lost; try sending it again.", 0)
		m.toasts.AddError("Request failed")
		return m, tea.Batch(components.ToastTickCmd(), m.syncViewport())
	}

	turn := m.conversation.AppendAssistant(msg.Response, msg.SourcesCount)

	var cmds []tea.Cmd
	if cmd := m.startReveal(turn); cmd != nil {
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.noticeUnresolvedCitations(msg.Response)...)
	cmds = append(cmds, m.syncViewport())

	m.rememberSession(m.conversation.Preview())

	return m, tea.Batch(cmds...)
}

// noticeUnresolvedCitations raises a non-fatal notice for each cited
// asset that does not resolve in the local vault cache.
func (m *Model) noticeUnresolvedCitations(text string) []tea.Cmd {
	lookup := m.lookup()
	if lookup == nil {
		return nil
	}

	resolver := citation.NewResolver(lookup)
	seen := make(map[string]bool)
	var cmds []tea.Cmd

	for _, name := range citation.Names(citation.Parse(text)) {
		if seen[name] {
			continue
		}
		seen[name] = true

		if _, notice, ok := resolver.Resolve(name); !ok {
			m.toasts.AddWarning(notice)
			cmds = append(cmds, components.ToastTickCmd())
		}
	}

	return cmds
}

// =============================================================================
// HISTORY
// =============================================================================

func (m Model) handleHistoryLoaded(msg HistoryLoadedMsg) (Model, tea.Cmd) {
	// Stale guard: a slow fetch for a previous session must not
	// overwrite the conversation the user switched to.
	if msg.Generation != m.historyGen {
		return m, nil
	}

	m.applyHistory(msg)
	m.stopReveal()
	return m, m.syncViewport()
}

// SwitchSession activates a different session and rehydrates its
// history. The generation bump invalidates any load still in flight.
func (m Model) SwitchSession(id session.Identity) (Model, tea.Cmd) {
	m.sessions.SetActive(id)
	m.historyGen++
	m.state = StateIdle
	m.thinking.Stop()
	m.stopReveal()

	if m.events != nil {
		m.events.Publish(bus.SessionSwitchedEvent{SessionID: id.String(), At: time.Now()})
	}

	return m, loadHistoryCmd(m.client, id.String(), m.historyGen)
}

// =============================================================================
// REVEAL TICKS
// =============================================================================

func (m Model) handleRevealTick(msg reveal.TickMsg) (Model, tea.Cmd) {
	if !m.revealer.Advance(msg.Generation) {
		// Stale tick from a superseded reveal.
		return m, nil
	}

	if m.revealer.Done() {
		m.revealTurnID = ""
		return m, m.syncViewport()
	}

	return m, tea.Batch(m.revealer.TickCmd(), m.syncViewport())
}

// =============================================================================
// BUS EVENTS
// =============================================================================

func (m Model) handleBusEvent(msg BusEventMsg) (Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForBusEvent(m.busSub)}

	switch ev := msg.Event.(type) {
	case bus.MentionEvent:
		m.toasts.AddStatus(ev.Author + " mentioned " + ev.AssetName)
		cmds = append(cmds, components.ToastTickCmd())
	case bus.AssetsSyncedEvent:
		m.toasts.AddSuccess("Vault updated")
		cmds = append(cmds, components.ToastTickCmd())
	}

	return m, tea.Batch(cmds...)
}

// =============================================================================
// COMPONENT FAN-OUT
// =============================================================================

// updateComponents forwards messages to the focused sub-components.
func (m Model) updateComponents(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.thinking, cmd = m.thinking.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
