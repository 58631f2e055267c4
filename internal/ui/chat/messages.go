// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/morganforge/riley-tui/internal/bus"
	"github.com/morganforge/riley-tui/internal/model"
)

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatResponseMsg carries the settled result of a chat submit, success
// or failure. Err set means the request failed and Response is empty.
type ChatResponseMsg struct {
	SessionID    string
	Response     string
	SourcesCount int
	Elapsed      time.Duration
	Err          error
}

// NewChatResponseMsg creates a successful chat response message.
func NewChatResponseMsg(sessionID, response string, sourcesCount int, elapsed time.Duration) ChatResponseMsg {
	return ChatResponseMsg{
		SessionID:    sessionID,
		Response:     response,
		SourcesCount: sourcesCount,
		Elapsed:      elapsed,
	}
}

// NewChatErrorMsg creates a failed chat response message.
func NewChatErrorMsg(sessionID string, err error) ChatResponseMsg {
	return ChatResponseMsg{SessionID: sessionID, Err: err}
}

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// HistoryLoadedMsg carries the hydrated turn log for a session.
// Generation ties the result to the load that requested it; the update
// loop discards results whose generation is no longer current.
type HistoryLoadedMsg struct {
	SessionID  string
	Generation int
	Turns      []*model.Turn
	Err        error
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionClearedMsg reports the outcome of a remote context clear.
type SessionClearedMsg struct {
	SessionID string
	Err       error
}

// SessionSwitchedMsg is sent when the active session changes and the
// transcript needs rehydrating.
type SessionSwitchedMsg struct {
	SessionID string
}

// =============================================================================
// VAULT MESSAGES
// =============================================================================

// AssetsSyncedMsg reports the outcome of a vault asset sync.
type AssetsSyncedMsg struct {
	Count int
	Err   error
}

// =============================================================================
// BUS MESSAGES
// =============================================================================

// BusEventMsg wraps an event received from the notification bus so the
// update loop can surface it (e.g. mentions become toasts).
type BusEventMsg struct {
	Event bus.Event
}
