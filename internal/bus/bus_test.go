// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bus

import (
	"sync"
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	s1 := b.Subscribe(4)
	s2 := b.Subscribe(4)

	b.Publish(MentionEvent{Tenant: "alderaan", Author: "bail", AssetName: "Northern-Pass.md"})

	for i, sub := range []*Subscription{s1, s2} {
		select {
		case ev := <-sub.C:
			me, ok := ev.(MentionEvent)
			if !ok {
				t.Fatalf("subscriber %d got %T, want MentionEvent", i, ev)
			}
			if me.Author != "bail" {
				t.Errorf("subscriber %d author = %q, want bail", i, me.Author)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never received the event", i)
		}
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	defer b.Close()

	slow := b.Subscribe(1)
	fast := b.Subscribe(8)

	// Fill the slow subscriber's buffer, then keep publishing.
	for i := 0; i < 5; i++ {
		b.Publish(AssetsSyncedEvent{Count: i})
	}

	// The fast subscriber sees all five; the slow one only the first.
	received := 0
	for {
		select {
		case <-fast.C:
			received++
		default:
			goto done
		}
	}
done:
	if received != 5 {
		t.Errorf("fast subscriber received %d events, want 5", received)
	}
	if len(slow.C) != 1 {
		t.Errorf("slow subscriber buffered %d events, want 1", len(slow.C))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe(1)
	b.Unsubscribe(sub.ID)

	if _, open := <-sub.C; open {
		t.Error("channel should be closed after Unsubscribe")
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount = %d, want 0", b.SubscriberCount())
	}

	// Publishing after unsubscribe must not panic.
	b.Publish(SessionSwitchedEvent{SessionID: "riley_a_u_1"})
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New()
	sub := b.Subscribe(1)

	b.Close()
	b.Close()

	if _, open := <-sub.C; open {
		t.Error("channel should be closed after bus Close")
	}

	// Subscribing after close yields a closed channel, not a panic.
	late := b.Subscribe(1)
	if _, open := <-late.C; open {
		t.Error("post-close subscription should be closed immediately")
	}
	b.Publish(MentionEvent{})
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := b.Subscribe(4)
			b.Unsubscribe(sub.ID)
		}()
		go func() {
			defer wg.Done()
			b.Publish(AssetsSyncedEvent{Count: 1})
		}()
	}
	wg.Wait()
}

func TestEventKinds(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{MentionEvent{}, "mention"},
		{AssetsSyncedEvent{}, "assets_synced"},
		{SessionSwitchedEvent{}, "session_switched"},
	}
	for _, tt := range tests {
		if got := tt.ev.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %q, want %q", tt.ev, got, tt.want)
		}
	}
}
