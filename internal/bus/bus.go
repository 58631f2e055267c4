// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bus provides a small in-process event bus for the riley TUI.
package bus

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// =============================================================================
// EVENTS
// =============================================================================

// Event is implemented by every bus event.
type Event interface {
	Kind() string
}

// MentionEvent fires when a collaborator mentions the operator in a
// campaign document.
type MentionEvent struct {
	Tenant    string
	Author    string
	AssetName string
	Excerpt   string
	At        time.Time
}

func (MentionEvent) Kind() string { return "mention" }

// AssetsSyncedEvent fires after a vault cache refresh.
type AssetsSyncedEvent struct {
	Count int
	At    time.Time
}

func (AssetsSyncedEvent) Kind() string { return "assets_synced" }

// SessionSwitchedEvent fires when the active session changes.
type SessionSwitchedEvent struct {
	SessionID string
	At        time.Time
}

func (SessionSwitchedEvent) Kind() string { return "session_switched" }

// =============================================================================
// BUS
// =============================================================================

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// that falls behind loses events rather than stalling the UI loop.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool
}

// Subscription is one subscriber's feed. Receive from C; call the bus's
// Unsubscribe when done.
type Subscription struct {
	ID string
	C  chan Event
}

// New creates an event bus.
func New() *Bus {
	return &Bus{subs: make(map[string]*Subscription)}
}

// Subscribe registers a subscriber with the given channel buffer.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}

	sub := &Subscription{
		ID: generateSubID(),
		C:  make(chan Event, buffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.C)
		return sub
	}
	b.subs[sub.ID] = sub
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.C)
	}
}

// Publish delivers an event to all current subscribers.
// Subscribers with full buffers are skipped.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		select {
		case sub.C <- ev:
		default:
			// Slow subscriber; drop rather than block the publisher.
		}
	}
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.C)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// generateSubID creates a unique subscription ID.
func generateSubID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "sub_" + hex.EncodeToString(bytes)
}
