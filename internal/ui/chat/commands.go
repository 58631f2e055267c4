// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/assets"
	"github.com/morganforge/riley-tui/internal/bus"
)

// =============================================================================
// CHAT COMMANDS
// =============================================================================

// sendChatCmd submits a query to the chat endpoint. The request runs to
// completion; there is no user-facing abort. The client carries its own
// timeout so a hung backend still settles into an error turn.
func sendChatCmd(client *api.Client, query, sessionID string, mode api.Mode) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return NewChatErrorMsg(sessionID, api.ErrNoToken)
		}

		start := time.Now()
		resp, err := client.Chat(context.Background(), query, sessionID, mode)
		if err != nil {
			return NewChatErrorMsg(sessionID, err)
		}

		return NewChatResponseMsg(sessionID, resp.Response, resp.SourcesCount, time.Since(start))
	}
}

// clearSessionCmd deletes the session's remote context.
func clearSessionCmd(client *api.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		msg := SessionClearedMsg{SessionID: sessionID}

		if client == nil || sessionID == "" {
			return msg
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		msg.Err = client.ClearSession(ctx, sessionID)
		return msg
	}
}

// syncAssetsCmd refreshes the local vault asset cache from the remote
// listing so citation lookups work offline afterwards. Success is
// announced on the event bus so every subscribed view hears about the
// refreshed vault; without a bus the result message carries the count.
func syncAssetsCmd(vault *assets.Index, client *api.Client, events *bus.Bus) tea.Cmd {
	return func() tea.Msg {
		if vault == nil || client == nil {
			return AssetsSyncedMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := vault.Sync(ctx, client); err != nil {
			return AssetsSyncedMsg{Err: err}
		}

		count := vault.Stats().AssetCount
		if events != nil {
			events.Publish(bus.AssetsSyncedEvent{Count: count, At: time.Now()})
			return nil
		}
		return AssetsSyncedMsg{Count: count}
	}
}

// =============================================================================
// BUS BRIDGE
// =============================================================================

// waitForBusEvent blocks on the bus subscription and wraps the next
// event as a tea message. The update loop re-issues it after each event
// to keep the subscription drained.
func waitForBusEvent(sub *bus.Subscription) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.C
		if !ok {
			return nil
		}
		return BusEventMsg{Event: ev}
	}
}
