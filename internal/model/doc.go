// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and turns.
//
// This package defines the core domain types used throughout the application
// for representing a Riley chat transcript.
//
// # Key Types
//
//   - Conversation: Append-only transcript for one session
//   - Turn: Single transcript entry with role, content, and timestamp
//   - Role: Turn role enumeration (user, assistant, system)
//
// # Usage
//
// Seed a new session and record an exchange:
//
//	conv := model.NewConversation()
//	conv.Initialize("Hi! I'm Riley. Ask me anything about your campaign.")
//	conv.AppendUser("Who holds the northern pass?")
//	conv.AppendAssistant(reply, sourcesCount)
package model
