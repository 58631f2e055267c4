// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/assets"
	"github.com/morganforge/riley-tui/internal/bus"
	"github.com/morganforge/riley-tui/internal/config"
	"github.com/morganforge/riley-tui/internal/model"
	"github.com/morganforge/riley-tui/internal/reveal"
	"github.com/morganforge/riley-tui/internal/session"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	cfg := config.Default()
	cfg.API.Tenant = "alderaan"
	cfg.API.UserID = "leia"

	m := New(Options{Config: cfg})
	m.state = StateIdle
	return m
}

// submit drives one user submit and returns the updated model.
func submit(t *testing.T, m Model, text string) (Model, bool) {
	t.Helper()
	m.input.SetValue(text)
	cmd := (&m).submitInput()
	return m, cmd != nil
}

// reply delivers a settled chat response for the active session.
func reply(t *testing.T, m Model, response string, sources int) Model {
	t.Helper()
	msg := NewChatResponseMsg(m.ActiveSessionID(), response, sources, time.Millisecond)
	m, _ = m.Update(msg)
	return m
}

// =============================================================================
// SUBMIT PIPELINE
// =============================================================================

func TestSubmitAppendsUserTurnImmediately(t *testing.T) {
	m := newTestModel(t)

	m, dispatched := submit(t, m, "Hello")
	if !dispatched {
		t.Fatal("submit should dispatch a network command")
	}

	turns := m.conversation.Turns
	if len(turns) != 2 {
		t.Fatalf("turn count = %d, want 2 (system + user)", len(turns))
	}
	if turns[1].Role != model.RoleUser || turns[1].Content != "Hello" {
		t.Errorf("optimistic user turn = %+v", turns[1])
	}

	// Input clears on submit, not when the reply arrives.
	if m.input.Value() != "" {
		t.Error("input should be empty immediately after submit")
	}
	if m.state != StateAwaiting {
		t.Errorf("state = %v, want StateAwaiting", m.state)
	}
	if m.ActiveSessionID() == "" {
		t.Error("submit should lazily create a session identity")
	}
}

func TestSubmitBlankInputIgnored(t *testing.T) {
	m := newTestModel(t)

	m, dispatched := submit(t, m, "   \t  ")
	if dispatched {
		t.Error("blank input should not dispatch")
	}
	if got := m.conversation.TurnCount(); got != 1 {
		t.Errorf("turn count = %d, want 1 (greeting only)", got)
	}
	if m.state != StateIdle {
		t.Error("blank input should not change state")
	}
}

func TestDoubleSubmitIgnoredWhileAwaiting(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "first question")
	countAfterFirst := m.conversation.TurnCount()

	m, dispatched := submit(t, m, "second question")
	if dispatched {
		t.Error("submit while awaiting should not dispatch")
	}
	if got := m.conversation.TurnCount(); got != countAfterFirst {
		t.Errorf("turn count changed by ignored submit: %d -> %d", countAfterFirst, got)
	}
}

// =============================================================================
// RESPONSE HANDLING
// =============================================================================

func TestFirstExchangeScenario(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "Hello")
	m = reply(t, m, "Hi there, commander.", 2)

	turns := m.conversation.Turns
	if len(turns) != 3 {
		t.Fatalf("turn count = %d, want 3 (system, user, assistant)", len(turns))
	}
	if turns[0].Role != model.RoleSystem {
		t.Error("first turn should be the system greeting")
	}
	if turns[2].Role != model.RoleAssistant || turns[2].Content != "Hi there, commander." {
		t.Errorf("assistant turn = %+v", turns[2])
	}
	if turns[2].SourcesCount != 2 {
		t.Errorf("SourcesCount = %d, want 2", turns[2].SourcesCount)
	}
	if m.state != StateIdle {
		t.Error("state should return to idle after the reply")
	}
}

func TestOrderingAcrossManyExchanges(t *testing.T) {
	m := newTestModel(t)

	for i := 0; i < 5; i++ {
		m, _ = submit(t, m, "question")
		m = reply(t, m, "answer", 0)
	}

	turns := m.conversation.Turns
	if len(turns) != 11 {
		t.Fatalf("turn count = %d, want 11", len(turns))
	}
	for i := 1; i < len(turns); i += 2 {
		if turns[i].Role != model.RoleUser {
			t.Errorf("turn %d role = %s, want user", i, turns[i].Role)
		}
		if turns[i+1].Role != model.RoleAssistant {
			t.Errorf("turn %d role = %s, want assistant", i+1, turns[i+1].Role)
		}
	}
}

func TestErrorBecomesAssistantTurn(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "Hello")
	msg := NewChatErrorMsg(m.ActiveSessionID(), errors.New("connection refused"))
	m, _ = m.Update(msg)

	last := m.conversation.Last()
	if last.Role != model.RoleAssistant {
		t.Errorf("error turn role = %s, want assistant", last.Role)
	}
	if !strings.Contains(last.Content, "connection refused") {
		t.Errorf("error turn should carry the error text, got %q", last.Content)
	}
	if m.state != StateIdle {
		t.Error("state should return to idle after a failed reply")
	}
}

func TestResponseForRetiredSessionDropped(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "Hello")
	oldSession := m.ActiveSessionID()

	// /new retires the session while the request is in flight.
	(&m).handleCommand("/new")
	countAfterNew := m.conversation.TurnCount()

	m, _ = m.Update(NewChatResponseMsg(oldSession, "late reply", 0, time.Millisecond))

	if got := m.conversation.TurnCount(); got != countAfterNew {
		t.Errorf("late reply for a retired session mutated the transcript: %d -> %d",
			countAfterNew, got)
	}
}

// =============================================================================
// HISTORY HYDRATION
// =============================================================================

func TestHistoryLoadedRebuildsConversation(t *testing.T) {
	m := newTestModel(t)

	msg := HistoryLoadedMsg{
		Generation: m.historyGen,
		Turns: []*model.Turn{
			model.NewUserTurn("earlier question"),
			model.NewAssistantTurn("earlier answer", 1),
		},
	}
	m, _ = m.Update(msg)

	turns := m.conversation.Turns
	if len(turns) != 3 {
		t.Fatalf("turn count = %d, want 3", len(turns))
	}
	if turns[0].Role != model.RoleSystem {
		t.Error("rebuilt conversation should lead with the system greeting")
	}
	if turns[1].Content != "earlier question" || turns[2].Content != "earlier answer" {
		t.Error("history order not preserved")
	}
}

func TestHistoryFailureFallsBackToGreeting(t *testing.T) {
	m := newTestModel(t)
	m.conversation.AppendUser("stale local turn")

	msg := HistoryLoadedMsg{Generation: m.historyGen, Err: errors.New("boom")}
	m, _ = m.Update(msg)

	turns := m.conversation.Turns
	if len(turns) != 1 || turns[0].Role != model.RoleSystem {
		t.Errorf("failed hydration should leave [system] only, got %d turns", len(turns))
	}
}

func TestStaleHistoryResultDiscarded(t *testing.T) {
	m := newTestModel(t)

	// A load for session A is in flight at generation g.
	staleGen := m.historyGen
	staleMsg := HistoryLoadedMsg{
		Generation: staleGen,
		Turns:      []*model.Turn{model.NewUserTurn("session A history")},
	}

	// The user switches to session B before A's load resolves.
	idB := session.New("endor", "", "luke")
	m, _ = m.SwitchSession(idB)

	// B's load resolves first.
	freshMsg := HistoryLoadedMsg{
		Generation: m.historyGen,
		Turns:      []*model.Turn{model.NewUserTurn("session B history")},
	}
	m, _ = m.Update(freshMsg)

	// A's stale load resolves second and must be discarded.
	m, _ = m.Update(staleMsg)

	turns := m.conversation.Turns
	if len(turns) != 2 {
		t.Fatalf("turn count = %d, want 2", len(turns))
	}
	if turns[1].Content != "session B history" {
		t.Errorf("final state = %q, want session B's history", turns[1].Content)
	}
}

// =============================================================================
// REVEAL INTEGRATION
// =============================================================================

func TestReplyStartsReveal(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "Hello")
	m = reply(t, m, "a fairly long reply that takes a few ticks", 0)

	if m.revealTurnID == "" {
		t.Fatal("reply should start revealing the new assistant turn")
	}
	if m.revealer.Done() {
		t.Error("reveal should start from an empty prefix")
	}
}

func TestStaleRevealTickIgnored(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "Hello")
	m = reply(t, m, "first reply text", 0)

	staleGen := m.revealer.Generation()

	// A second exchange supersedes the first reveal.
	m, _ = submit(t, m, "again")
	m = reply(t, m, "second reply text", 0)

	before := m.revealer.Visible()
	m, _ = m.Update(reveal.TickMsg{Generation: staleGen, Time: time.Now()})
	if m.revealer.Visible() != before {
		t.Error("stale tick mutated the visible prefix")
	}

	// Current-generation ticks advance to exactly the new text.
	for i := 0; i < 1000 && !m.revealer.Done(); i++ {
		m, _ = m.Update(reveal.TickMsg{Generation: m.revealer.Generation(), Time: time.Now()})
	}
	if m.revealer.Visible() != "second reply text" {
		t.Errorf("final visible = %q, want the second reply only", m.revealer.Visible())
	}
}

func TestSkipRevealShowsFullText(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "Hello")
	m = reply(t, m, "the complete reply", 0)

	(&m).skipReveal()

	if m.revealTurnID != "" {
		t.Error("skip should finish the reveal")
	}
	if m.revealer.Visible() != "the complete reply" {
		t.Errorf("visible = %q, want full text", m.revealer.Visible())
	}
}

// =============================================================================
// COMMANDS AND STATE
// =============================================================================

func TestModeToggle(t *testing.T) {
	m := newTestModel(t)

	if m.mode != api.ModeFast {
		t.Fatalf("default mode = %s, want fast", m.mode)
	}
	(&m).toggleMode()
	if m.mode != api.ModeDeep {
		t.Errorf("mode after toggle = %s, want deep", m.mode)
	}
	(&m).handleCommand("/mode fast")
	if m.mode != api.ModeFast {
		t.Errorf("mode after /mode fast = %s", m.mode)
	}
}

func TestNewConversationResetsEverything(t *testing.T) {
	m := newTestModel(t)

	m, _ = submit(t, m, "Hello")
	m = reply(t, m, "Hi", 0)

	(&m).handleCommand("/new")

	if m.ActiveSessionID() != "" {
		t.Error("new conversation should drop the session identity")
	}
	turns := m.conversation.Turns
	if len(turns) != 1 || turns[0].Role != model.RoleSystem {
		t.Errorf("new conversation should hold only the greeting, got %d turns", len(turns))
	}
	if m.state != StateIdle {
		t.Error("new conversation should return to idle")
	}
}

func TestUnknownCommandWarns(t *testing.T) {
	m := newTestModel(t)

	(&m).handleCommand("/frobnicate")
	if !m.toasts.HasToasts() {
		t.Error("unknown command should raise a toast")
	}
	if got := m.conversation.TurnCount(); got != 1 {
		t.Errorf("unknown command should not touch the transcript, got %d turns", got)
	}
}

func TestMapHistoryTurnsSkipsEmpty(t *testing.T) {
	turns := mapHistoryTurns([]api.HistoryTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: ""},
		{Role: "assistant", Content: "world"},
	})

	if len(turns) != 2 {
		t.Fatalf("mapped %d turns, want 2", len(turns))
	}
	if turns[0].Role != model.RoleUser || turns[1].Role != model.RoleAssistant {
		t.Error("roles not mapped correctly")
	}
}

// =============================================================================
// EVENT BUS
// =============================================================================

func TestVaultSyncAnnouncesOnBus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vault/assets" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]api.VaultAsset{
			{ID: "a1", DisplayName: "Northern-Pass.md", Kind: "document", Campaign: "alderaan"},
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, api.StaticToken("test-token"), "alderaan")

	vault, err := assets.Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open vault: %v", err)
	}
	defer vault.Close()

	events := bus.New()
	defer events.Close()
	sub := events.Subscribe(1)

	msg := syncAssetsCmd(vault, client, events)()
	if msg != nil {
		t.Fatalf("bus-backed sync should deliver via the bus, got %T", msg)
	}

	select {
	case ev := <-sub.C:
		synced, ok := ev.(bus.AssetsSyncedEvent)
		if !ok {
			t.Fatalf("event = %T, want AssetsSyncedEvent", ev)
		}
		if synced.Count != 1 {
			t.Errorf("Count = %d, want 1", synced.Count)
		}
	default:
		t.Fatal("no event published after sync")
	}
}

func TestVaultSyncWithoutBusReturnsMessage(t *testing.T) {
	msg := syncAssetsCmd(nil, nil, nil)()
	if _, ok := msg.(AssetsSyncedMsg); !ok {
		t.Fatalf("msg = %T, want AssetsSyncedMsg", msg)
	}
}

func TestBusAssetEventSurfacesToast(t *testing.T) {
	events := bus.New()
	defer events.Close()

	m := New(Options{Config: config.Default(), Events: events})
	m.state = StateIdle

	m, _ = m.Update(BusEventMsg{Event: bus.AssetsSyncedEvent{Count: 3}})
	if !m.toasts.HasToasts() {
		t.Error("assets-synced event should surface a toast")
	}
}

func TestSwitchSessionAnnouncesOnBus(t *testing.T) {
	events := bus.New()
	defer events.Close()

	m := New(Options{Config: config.Default(), Events: events})
	m.state = StateIdle
	sub := events.Subscribe(1)

	id := session.New("endor", "", "luke")
	m, _ = m.SwitchSession(id)

	select {
	case ev := <-sub.C:
		switched, ok := ev.(bus.SessionSwitchedEvent)
		if !ok {
			t.Fatalf("event = %T, want SessionSwitchedEvent", ev)
		}
		if switched.SessionID != id.String() {
			t.Errorf("SessionID = %q, want %q", switched.SessionID, id.String())
		}
	default:
		t.Fatal("no event published on session switch")
	}
}

func TestCloseReleasesBusSubscription(t *testing.T) {
	events := bus.New()
	defer events.Close()

	m := New(Options{Config: config.Default(), Events: events})
	if events.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount = %d, want 1 after construction", events.SubscriberCount())
	}

	(&m).Close()
	if events.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount = %d, want 0 after Close", events.SubscriberCount())
	}
}

func TestSubmitMarksSessionDirtyForAutoSave(t *testing.T) {
	m := newTestModel(t)
	if m.sessions.IsDirty() {
		t.Fatal("fresh model should have nothing to persist")
	}

	m, _ = submit(t, m, "hello")
	if !m.sessions.IsDirty() {
		t.Error("minting a session should mark the pointer dirty for auto-save")
	}
}
