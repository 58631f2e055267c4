// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helper functions shared across riley-tui.
//
// String helpers are rune- and width-aware so transcript rendering never
// splits a multi-byte character. File helpers write atomically so crash
// recovery sees either the old state file or the new complete one, never a
// torn write.
//
// # Usage
//
//	// Truncate long strings safely for display
//	title := util.TruncateWidth(sessionTitle, 40)
//
//	// Persist UI state without risking partial writes
//	err := util.AtomicWriteFile(path, data, 0600)
package util
