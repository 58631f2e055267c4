// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the interactive chat view for the riley TUI.

The package implements the conversational session controller as a
Bubble Tea model. It owns the state machine around submitting a query:

	StateIdle --submit--> StateAwaiting --settle--> StateIdle

A submit appends the user turn optimistically, clears the input, and
lazily creates the session identity on the first message. While a
request is in flight further submits are dropped by state inspection
and a thinking indicator runs. The settled result, success or error, is
appended as an assistant turn; error replies are ordinary assistant
turns carrying the error text, so the rendering path has no special
error mode. There is no mid-flight cancellation; the API client's
timeout bounds a hung request.

# History hydration

Activating a session loads its prior turns from the backend. Every load
carries a generation token; the update loop discards results whose
generation is stale, so a slow fetch for a previous session can never
overwrite the conversation the user switched to. Missing or failing
history falls back to the greeting alone - the normal state for a new
session, not an error.

# Incremental reveal

Only the newest assistant turn animates. The reveal package owns the
visible prefix; ticks from a superseded reveal carry an old generation
and are ignored, so switching replies mid-animation can never
interleave two texts.

# Citations

Assistant text may embed [[Source: name]] markers. They render as
styled references; names that do not resolve in the local vault cache
raise a non-blocking toast instead of an error.

# Slash commands

/new starts a fresh conversation, /clear also wipes the remote context,
/mode switches fast|deep, /sessions lists recent sessions, /sync
refreshes the vault cache, /help toggles the shortcut overlay.

File organization:

	model.go    - Model struct, states, construction
	update.go   - message dispatch and state transitions
	view.go     - layout and rendering
	input.go    - submit pipeline and slash commands
	history.go  - history hydration with the stale guard
	commands.go - asynchronous tea commands
	messages.go - typed message catalog
	keys.go     - key bindings
*/
package chat
