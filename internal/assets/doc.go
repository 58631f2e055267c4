// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assets maintains a local SQLite cache of vault assets.
//
// The Riley backend cites vault assets by display name; this package
// mirrors the tenant's asset listing into ~/.riley/vault.db so citation
// markers resolve instantly and keep working offline.
//
// # Usage
//
// Open the index and refresh it from the backend:
//
//	idx, err := assets.Open(path)
//	err = idx.Sync(ctx, client)
//
// Resolve a citation name:
//
//	asset, ok := idx.LookupByName(citation.NormalizeName("Northern-Pass.md"))
package assets
