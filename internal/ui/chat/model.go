// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/assets"
	"github.com/morganforge/riley-tui/internal/bus"
	"github.com/morganforge/riley-tui/internal/citation"
	"github.com/morganforge/riley-tui/internal/config"
	"github.com/morganforge/riley-tui/internal/model"
	"github.com/morganforge/riley-tui/internal/reveal"
	"github.com/morganforge/riley-tui/internal/session"
	"github.com/morganforge/riley-tui/internal/storage"
	"github.com/morganforge/riley-tui/internal/ui/components"
	"github.com/morganforge/riley-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the controller state of the chat view.
type State int

const (
	// StateWelcome shows the start screen until the first keypress.
	StateWelcome State = iota
	// StateIdle accepts input.
	StateIdle
	// StateAwaiting has a chat request in flight. Submits are ignored
	// until the request settles.
	StateAwaiting
)

// Preference keys in the UI preferences store.
const (
	prefWelcomeSeen = "welcome_seen"
	prefMode        = "mode"
)

// defaultGreeting opens every conversation as the first system turn.
const defaultGreeting = "Hey, I'm riley. Ask me anything about your campaign, " +
	"and I'll cite the vault files I used."

// =============================================================================
// MODEL
// =============================================================================

// Model is the bubbletea model for the chat view. It orchestrates the
// conversation log, session identity, the chat API, history hydration,
// and the incremental reveal of the newest reply.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme

	width  int
	height int

	state State

	// Conversation state
	conversation *model.Conversation
	sessions     *session.Manager
	mode         api.Mode

	// Collaborators
	client *api.Client
	store  *storage.SessionStore
	vault  *assets.Index
	events *bus.Bus
	prefs  storage.KV

	// History hydration. historyGen invalidates in-flight loads when
	// the active session changes underneath them.
	historyGen int

	// Reveal of the newest assistant turn
	revealer     *reveal.Revealer
	revealTurnID string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	thinking components.ThinkingIndicator
	toasts   *components.ToastManager
	welcome  components.Welcome
	keys     KeyMap

	busSub *bus.Subscription

	showHelp bool
	version  string
}

// Options carries the collaborators for a chat Model. Client is
// required; the rest may be nil and the matching feature degrades.
type Options struct {
	Config  *config.Config
	Client  *api.Client
	Store   *storage.SessionStore
	Vault   *assets.Index
	Events  *bus.Bus
	Prefs   storage.KV
	Version string
}

// New creates the chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask riley anything..."
	input.CharLimit = 4000
	input.Focus()

	conv := model.NewConversation()
	conv.Initialize(defaultGreeting)

	var revealer *reveal.Revealer
	if cfg.Reveal.Enabled {
		revealer = reveal.NewWithConfig(
			cfg.Reveal.WordMode,
			cfg.Reveal.Chunk,
			time.Duration(cfg.Reveal.IntervalMs)*time.Millisecond,
		)
	} else {
		revealer = reveal.New()
	}

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(opts.Version)
	welcome.SetTenant(cfg.API.Tenant)
	welcome.SetUser(cfg.API.UserID)
	welcome.SetMode(cfg.API.Mode)

	sessions := session.NewManager(session.DefaultConfig())
	// Keep the on-disk active-session pointer fresh while the program
	// runs; a crash then loses at most one auto-save interval.
	sessions.SetAutoSaveCallback(func() error {
		return storage.SaveState(&storage.AppState{
			ActiveSessionID: sessions.ActiveID(),
			Tenant:          cfg.API.Tenant,
			ContextKey:      cfg.API.DefaultContext,
			Mode:            cfg.API.Mode,
			UpdatedAt:       time.Now(),
		})
	})

	m := Model{
		cfg:          cfg,
		theme:        theme,
		state:        StateWelcome,
		conversation: conv,
		sessions:     sessions,
		mode:         api.ParseMode(cfg.API.Mode),
		client:       opts.Client,
		store:        opts.Store,
		vault:        opts.Vault,
		events:       opts.Events,
		prefs:        opts.Prefs,
		revealer:     revealer,
		viewport:     viewport.New(80, 20),
		input:        input,
		thinking:     components.NewThinkingIndicator(),
		toasts:       components.NewToastManager(),
		welcome:      welcome,
		keys:         DefaultKeyMap(),
		version:      opts.Version,
	}

	if opts.Events != nil {
		m.busSub = opts.Events.Subscribe(0)
	}

	if opts.Prefs != nil {
		// Returning users skip the welcome screen and keep their last
		// reply mode across runs.
		if _, ok := opts.Prefs.Get(prefWelcomeSeen); ok {
			m.state = StateIdle
		}
		if v, ok := opts.Prefs.Get(prefMode); ok {
			m.mode = api.ParseMode(v)
		}
	}

	return m
}

// RestoreSession adopts a previously active session so its history is
// hydrated on startup instead of beginning a fresh conversation.
func (m *Model) RestoreSession(id session.Identity) {
	if id.IsZero() {
		return
	}
	m.sessions.SetActive(id)
}

// lookup returns the citation index, or nil when no vault cache is
// open. The typed-nil check matters: assigning a nil *assets.Index to
// the interface would make it non-nil and panic on use.
func (m *Model) lookup() citation.Index {
	if m.vault == nil {
		return nil
	}
	return m.vault
}

// ActiveSessionID returns the active session identifier, or "".
func (m *Model) ActiveSessionID() string {
	return m.sessions.ActiveID()
}

// Close releases the model's event bus subscription.
func (m *Model) Close() {
	if m.events != nil && m.busSub != nil {
		m.events.Unsubscribe(m.busSub.ID)
		m.busSub = nil
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the background ticks and hydrates history for a restored
// session.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		session.TickCmd(),
	}

	if active := m.sessions.Active(); !active.IsZero() {
		cmds = append(cmds, loadHistoryCmd(m.client, active.String(), m.historyGen))
	}

	if m.busSub != nil {
		cmds = append(cmds, waitForBusEvent(m.busSub))
	}

	return tea.Batch(cmds...)
}
