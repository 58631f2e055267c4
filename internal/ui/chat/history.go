// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/model"
)

// =============================================================================
// HISTORY LOADER
// =============================================================================

// historyLoadTimeout bounds a hydration fetch. History is a read path;
// a slow backend should never wedge the UI on startup.
const historyLoadTimeout = 15 * time.Second

// loadHistoryCmd fetches prior turns for a session. The generation
// token rides along in the result so the update loop can discard
// responses that arrive after the active session has changed.
func loadHistoryCmd(client *api.Client, sessionID string, generation int) tea.Cmd {
	return func() tea.Msg {
		msg := HistoryLoadedMsg{SessionID: sessionID, Generation: generation}

		if client == nil || sessionID == "" {
			return msg
		}

		ctx, cancel := context.WithTimeout(context.Background(), historyLoadTimeout)
		defer cancel()

		turns, err := client.History(ctx, sessionID)
		if err != nil {
			// Absent history is the normal state for a new session.
			// Any fetch failure falls back to a fresh conversation;
			// the error rides along only for logging.
			msg.Err = err
			return msg
		}

		msg.Turns = mapHistoryTurns(turns)
		return msg
	}
}

// mapHistoryTurns converts backend history entries to transcript turns,
// preserving the remote order.
func mapHistoryTurns(remote []api.HistoryTurn) []*model.Turn {
	if len(remote) == 0 {
		return nil
	}

	turns := make([]*model.Turn, 0, len(remote))
	for _, h := range remote {
		if h.Content == "" {
			continue
		}
		turns = append(turns, model.NewTurn(model.ParseRole(h.Role), h.Content))
	}
	return turns
}

// applyHistory rebuilds the conversation from a hydration result:
// [system greeting, ...history] on success, [system greeting] alone
// when history is empty or the fetch failed.
func (m *Model) applyHistory(msg HistoryLoadedMsg) {
	rebuilt := make([]*model.Turn, 0, len(msg.Turns)+1)
	rebuilt = append(rebuilt, model.NewSystemTurn(defaultGreeting))
	rebuilt = append(rebuilt, msg.Turns...)
	m.conversation.Replace(rebuilt)
}
