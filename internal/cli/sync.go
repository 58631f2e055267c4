// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sync.go - Vault asset cache refresh for riley CLI.
//
// Command: sync
// Short:   Refresh the local vault asset cache
// Aliases: vault
//
// The local sqlite cache lets citation markers resolve to vault assets
// without a network round trip per reply. Sync replaces the cached
// listing with the backend's current one.
//
// Examples:
//   riley sync
//   riley sync --json
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/morganforge/riley-tui/internal/assets"
	"github.com/morganforge/riley-tui/internal/config"
)

// syncData is the `--json` payload for `riley sync`.
type syncData struct {
	Assets    int    `json:"assets"`
	SyncedAt  string `json:"synced_at"`
	CachePath string `json:"cache_path"`
}

// HandleSync handles the "sync" command.
func HandleSync(args Args) error {
	cfg := config.Global()
	if !cfg.Storage.AssetCacheEnabled {
		return &CommandError{Command: "sync", Action: "run", Reason: "asset cache is disabled (storage.asset_cache_enabled)"}
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	path, err := assets.DefaultPath()
	if err != nil {
		return &CommandError{Command: "sync", Action: "open", Reason: "could not resolve cache path", Err: err}
	}
	idx, err := assets.Open(path)
	if err != nil {
		return &CommandError{Command: "sync", Action: "open", Reason: "could not open asset cache", Err: err}
	}
	defer idx.Close()

	if !args.Quiet && !args.JSON {
		fmt.Println(DimStyle.Render("Syncing vault assets..."))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := idx.Sync(ctx, client); err != nil {
		return &CommandError{Command: "sync", Action: "fetch", Reason: "vault sync failed", Err: err}
	}

	stats := idx.Stats()
	if args.JSON {
		return NewJSONResponse("sync", syncData{
			Assets:    stats.AssetCount,
			SyncedAt:  stats.LastSync.Format(time.RFC3339),
			CachePath: path,
		}).Print()
	}

	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Synced %d vault asset(s).", stats.AssetCount)))
	return nil
}
