// riley - campaign assistant for your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/assets"
	"github.com/morganforge/riley-tui/internal/bus"
	"github.com/morganforge/riley-tui/internal/cli"
	"github.com/morganforge/riley-tui/internal/config"
	"github.com/morganforge/riley-tui/internal/session"
	"github.com/morganforge/riley-tui/internal/storage"
	"github.com/morganforge/riley-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		exitOnError(cli.HandleAsk(args))
	case cli.CmdChat:
		exitOnError(cli.HandleChat(args))
	case cli.CmdSessions:
		exitOnError(cli.HandleSessions(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))
	case cli.CmdSetup:
		exitOnError(cli.HandleSetup(args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(args))
	case cli.CmdSync:
		exitOnError(cli.HandleSync(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// exitOnError prints a handler error and exits with its mapped code.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cli.GetExitCode(err))
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) {
	// The default logger would write over the alternate screen; send it
	// to a file for the lifetime of the TUI. Request logs never include
	// tokens or bodies, so a plain file is fine.
	if closeLog, err := redirectLogToFile(); err == nil {
		defer closeLog()
	}

	cfg := config.Global()
	if args.Tenant != "" {
		cfg.API.Tenant = args.Tenant
	}
	if args.Context != "" {
		cfg.API.DefaultContext = args.Context
	}
	if args.Mode != "" {
		cfg.API.Mode = args.Mode
	}

	// Reload config on edits so a token pasted via `riley setup` in
	// another terminal takes effect without restarting.
	if watcher, err := config.WatchGlobal(); err == nil && watcher != nil {
		defer watcher.Close()
	}

	var client *api.Client
	if cfg.API.Token != "" {
		client = api.NewClient(cfg.API.BaseURL, api.StaticToken(cfg.API.Token), cfg.API.Tenant)
		if cfg.API.TimeoutSecs > 0 {
			client = client.WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
		}
	}

	store, err := storage.NewSessionStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session storage unavailable: %v\n", err)
		store = nil
	}

	var vault *assets.Index
	if cfg.Storage.AssetCacheEnabled {
		if path, err := assets.DefaultPath(); err == nil {
			if idx, err := assets.Open(path); err == nil {
				vault = idx
				defer vault.Close()
			} else {
				fmt.Fprintf(os.Stderr, "Warning: vault cache unavailable: %v\n", err)
			}
		}
	}

	events := bus.New()
	defer events.Close()

	var prefs storage.KV
	if path, err := storage.PrefsPath(); err == nil {
		if kv, err := storage.OpenFileKV(path); err == nil {
			prefs = kv
		}
	}

	m := chat.New(chat.Options{
		Config:  cfg,
		Client:  client,
		Store:   store,
		Vault:   vault,
		Events:  events,
		Prefs:   prefs,
		Version: Version,
	})

	// Resume where the last run left off, unless a session was named on
	// the command line.
	restoreActiveSession(&m, args)

	p := tea.NewProgram(
		appModel{chat: m},
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running riley: %v\n", err)
		os.Exit(1)
	}

	persistActiveSession(final, cfg)

	if app, ok := final.(appModel); ok {
		app.chat.Close()
	}
}

// redirectLogToFile points the default logger at ~/.riley/riley.log and
// returns a closer that restores stderr output.
func redirectLogToFile() (func(), error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(homeDir, ".riley")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "riley.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	var prev io.Writer = os.Stderr
	log.SetOutput(f)
	return func() {
		log.SetOutput(prev)
		f.Close()
	}, nil
}

// restoreActiveSession applies --session or the saved app state.
func restoreActiveSession(m *chat.Model, args cli.Args) {
	if args.Session != "" {
		if id, err := session.Parse(args.Session); err == nil {
			m.RestoreSession(id)
		}
		return
	}

	st, err := storage.LoadState()
	if err != nil || st == nil || st.ActiveSessionID == "" {
		return
	}
	if id, err := session.Parse(st.ActiveSessionID); err == nil {
		m.RestoreSession(id)
	}
}

// persistActiveSession records the active session for the next launch.
func persistActiveSession(final tea.Model, cfg *config.Config) {
	app, ok := final.(appModel)
	if !ok {
		return
	}
	st := &storage.AppState{
		ActiveSessionID: app.chat.ActiveSessionID(),
		Tenant:          cfg.API.Tenant,
		ContextKey:      cfg.API.DefaultContext,
		Mode:            cfg.API.Mode,
		UpdatedAt:       time.Now(),
	}
	if err := storage.SaveState(st); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save state: %v\n", err)
	}
}

// =============================================================================
// BUBBLE TEA ADAPTER
// =============================================================================

// appModel adapts chat.Model's concrete Update signature to tea.Model.
type appModel struct {
	chat chat.Model
}

func (a appModel) Init() tea.Cmd {
	return a.chat.Init()
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.chat.Update(msg)
	a.chat = m
	return a, cmd
}

func (a appModel) View() string {
	return a.chat.View()
}
