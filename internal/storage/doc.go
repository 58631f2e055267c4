// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local session persistence for the riley TUI.
//
// Transcript content lives on the Riley backend; this package keeps just
// enough on disk to list past sessions, resume the most recent one, and
// remember the operator's last-used tenant and mode.
//
// # Key Types
//
//   - SessionStore: save/load/list session records
//   - SessionRecord: persisted session metadata with preview
//   - AppState: last-active session pointer and preferences
//
// # Usage
//
// Create a store and record a session:
//
//	store, err := storage.NewSessionStore()
//	err = store.Save(&storage.SessionRecord{ID: id, Tenant: tenant})
//
// List and resume:
//
//	recs, err := store.List()
//	rec, err := store.Load(recs[0].ID)
//
// # Storage Location
//
// Session records are stored in ~/.riley/sessions/ as JSON files, and the
// app state in ~/.riley/state.json.
package storage
