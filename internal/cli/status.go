// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - System status command for riley CLI.
//
// Command: status
// Short:   Show connection and cache status
// Aliases: s
//
// Examples:
//   riley status
//   riley status --json
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/assets"
	"github.com/morganforge/riley-tui/internal/config"
	"github.com/morganforge/riley-tui/internal/storage"
)

// statusData is the `--json` payload for `riley status`.
type statusData struct {
	BaseURL        string `json:"base_url"`
	Tenant         string `json:"tenant"`
	TokenSet       bool   `json:"token_set"`
	BackendOK      bool   `json:"backend_ok"`
	BackendError   string `json:"backend_error,omitempty"`
	VaultAssets    int    `json:"vault_assets"`
	VaultSyncedAt  string `json:"vault_synced_at,omitempty"`
	SavedSessions  int    `json:"saved_sessions"`
	ActiveSession  string `json:"active_session,omitempty"`
}

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	cfg := config.Global()
	data := statusData{
		BaseURL:  cfg.API.BaseURL,
		Tenant:   cfg.API.Tenant,
		TokenSet: cfg.API.Token != "",
	}

	// Backend reachability.
	if data.TokenSet {
		client := api.NewClient(cfg.API.BaseURL, api.StaticToken(cfg.API.Token), cfg.API.Tenant)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		remote, err := client.ListAssets(ctx)
		cancel()
		if err != nil {
			data.BackendError = err.Error()
		} else {
			data.BackendOK = true
			data.VaultAssets = len(remote)
		}
	}

	// Local vault cache.
	if path, err := assets.DefaultPath(); err == nil {
		if idx, err := assets.Open(path); err == nil {
			stats := idx.Stats()
			if stats.AssetCount > 0 {
				data.VaultAssets = stats.AssetCount
			}
			if !stats.LastSync.IsZero() {
				data.VaultSyncedAt = stats.LastSync.Format(time.RFC3339)
			}
			idx.Close()
		}
	}

	// Saved sessions and restored state.
	if store, err := storage.NewSessionStore(); err == nil {
		if recs, err := store.List(); err == nil {
			data.SavedSessions = len(recs)
		}
	}
	if st, err := storage.LoadState(); err == nil && st != nil {
		data.ActiveSession = st.ActiveSessionID
	}

	if args.JSON {
		return NewJSONResponse("status", data).Print()
	}

	fmt.Println(TitleStyle.Render("riley status"))
	fmt.Println(printKV("Backend", data.BaseURL))
	fmt.Println(printKV("Tenant", data.Tenant))
	if !data.TokenSet {
		fmt.Println(printKV("Token", WarnStyle.Render("not set - run `riley setup`")))
	} else if data.BackendOK {
		fmt.Println(printKV("Connection", SuccessStyle.Render("ok")))
	} else {
		fmt.Println(printKV("Connection", ErrStyle.Render("failed")))
		fmt.Println(printKV("", DimStyle.Render(data.BackendError)))
	}

	fmt.Println(printKV("Vault assets", fmt.Sprintf("%d", data.VaultAssets)))
	if data.VaultSyncedAt != "" {
		fmt.Println(printKV("Last sync", data.VaultSyncedAt))
	} else {
		fmt.Println(printKV("Last sync", DimStyle.Render("never - run `riley sync`")))
	}

	fmt.Println(printKV("Saved sessions", fmt.Sprintf("%d", data.SavedSessions)))
	if data.ActiveSession != "" {
		fmt.Println(printKV("Active session", data.ActiveSession))
	}
	return nil
}
