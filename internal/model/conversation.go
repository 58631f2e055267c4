// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and turns.
package model

import (
	"time"
)

// MaxTurns is the maximum number of turns to keep in a transcript.
// When exceeded, old turns are pruned to prevent unbounded memory growth.
// System turns are always preserved.
const MaxTurns = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an append-only transcript for a single session.
// Turn order is the order of appends; nothing here reorders or rewrites.
// It is owned by the UI event loop and is not safe for concurrent use.
type Conversation struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Turns []*Turn `json:"turns"`
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Turns:     make([]*Turn, 0),
	}
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// Initialize resets the transcript to a single system greeting turn.
// Called for brand-new sessions and after a context clear.
func (c *Conversation) Initialize(greeting string) *Turn {
	c.Turns = make([]*Turn, 0, 1)
	turn := NewSystemTurn(greeting)
	c.appendTurn(turn)
	return turn
}

// AppendUser appends a user turn. Callers guarantee content is non-blank;
// submit guards live in the controller, not here.
func (c *Conversation) AppendUser(content string) *Turn {
	turn := NewUserTurn(content)
	c.appendTurn(turn)
	return turn
}

// AppendAssistant appends an assistant turn. Error replies arrive through
// this same path as ordinary assistant turns with formatted error text.
func (c *Conversation) AppendAssistant(content string, sourcesCount int) *Turn {
	turn := NewAssistantTurn(content, sourcesCount)
	c.appendTurn(turn)
	return turn
}

// AppendSystem appends a system turn.
func (c *Conversation) AppendSystem(content string) *Turn {
	turn := NewSystemTurn(content)
	c.appendTurn(turn)
	return turn
}

// Replace swaps the whole transcript for hydrated history turns.
func (c *Conversation) Replace(turns []*Turn) {
	c.Turns = make([]*Turn, len(turns))
	copy(c.Turns, turns)
	c.UpdatedAt = time.Now()
	c.pruneOldTurns()
}

// Clear removes every turn, system greeting included. Callers that want a
// fresh session re-seed with Initialize.
func (c *Conversation) Clear() {
	c.Turns = make([]*Turn, 0)
	c.UpdatedAt = time.Now()
}

func (c *Conversation) appendTurn(turn *Turn) {
	c.Turns = append(c.Turns, turn)
	c.UpdatedAt = time.Now()
	c.pruneOldTurns()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Last returns the most recent turn, or nil if empty.
func (c *Conversation) Last() *Turn {
	if len(c.Turns) == 0 {
		return nil
	}
	return c.Turns[len(c.Turns)-1]
}

// LastAssistant returns the most recent assistant turn, or nil.
func (c *Conversation) LastAssistant() *Turn {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleAssistant {
			return c.Turns[i]
		}
	}
	return nil
}

// LastUser returns the most recent user turn, or nil.
func (c *Conversation) LastUser() *Turn {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleUser {
			return c.Turns[i]
		}
	}
	return nil
}

// TurnByID returns a turn by its ID, or nil.
func (c *Conversation) TurnByID(id string) *Turn {
	for _, turn := range c.Turns {
		if turn.ID == id {
			return turn
		}
	}
	return nil
}

// TurnCount returns the number of turns.
func (c *Conversation) TurnCount() int {
	return len(c.Turns)
}

// IsEmpty returns true if there are no turns.
func (c *Conversation) IsEmpty() bool {
	return len(c.Turns) == 0
}

// Preview returns a short preview of the conversation for listings.
func (c *Conversation) Preview() string {
	if len(c.Turns) == 0 {
		return "Empty session"
	}
	turn := c.LastUser()
	if turn == nil {
		turn = c.Turns[0]
	}
	return turn.Preview(100)
}

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Turns:     make([]*Turn, len(c.Turns)),
	}
	for i, turn := range c.Turns {
		turnCopy := *turn
		clone.Turns[i] = &turnCopy
	}
	return clone
}

// pruneOldTurns drops the oldest non-system turns once the transcript
// exceeds MaxTurns. System turns survive pruning.
func (c *Conversation) pruneOldTurns() {
	if len(c.Turns) <= MaxTurns {
		return
	}

	var systemTurns []*Turn
	var otherTurns []*Turn
	for _, turn := range c.Turns {
		if turn.Role == RoleSystem {
			systemTurns = append(systemTurns, turn)
		} else {
			otherTurns = append(otherTurns, turn)
		}
	}

	if len(otherTurns) > MaxTurns {
		otherTurns = otherTurns[len(otherTurns)-MaxTurns:]
	}

	c.Turns = make([]*Turn, 0, len(systemTurns)+len(otherTurns))
	c.Turns = append(c.Turns, systemTurns...)
	c.Turns = append(c.Turns, otherTurns...)
}
