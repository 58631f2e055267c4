// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session derives and tracks chat session identity.
//
// A session scopes one conversation to {tenant, context, user}. The
// composite identifier embeds a millisecond timestamp so two sessions for
// the same scope created at different moments never collide, and a
// process-local monotonic guard keeps back-to-back calls distinct even
// within one millisecond.
//
// # Key Types
//
//   - Identity: Immutable session scope plus creation moment
//   - Manager: Tracks the active identity; lazy creation on first submit
//
// # Usage
//
// Derive an identifier for a campaign strategy chat:
//
//	id := session.New("alderaan", "strategy", "user-42")
//	sessionID := id.String() // riley_alderaan_strategy_user-42_1735689600000
//
// Lazy creation through the manager:
//
//	mgr := session.NewManager(session.DefaultConfig())
//	id := mgr.Ensure(tenantID, contextKey, userID)
package session
