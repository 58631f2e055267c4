// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assets

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the local vault asset cache with FTS (Full Text Search)
const Schema = `
-- Metadata table for schema version and sync state
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Assets table: vault assets mirrored from the backend
CREATE TABLE IF NOT EXISTS assets (
    id TEXT PRIMARY KEY,
    name_norm TEXT NOT NULL UNIQUE, -- normalized lookup key
    display_name TEXT NOT NULL,
    kind TEXT,                      -- document, sheet, brief, ...
    campaign TEXT,
    synced_at INTEGER NOT NULL      -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_assets_name_norm ON assets(name_norm);
CREATE INDEX IF NOT EXISTS idx_assets_campaign ON assets(campaign);

-- Full-text search virtual table for assets. Standalone (no content
-- table); Sync rebuilds it wholesale alongside the assets table.
CREATE VIRTUAL TABLE IF NOT EXISTS assets_fts USING fts5(
    display_name,
    asset_id UNINDEXED,
    tokenize='porter unicode61'
);
`

// InitMetadata initializes the metadata table with default values
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
INSERT OR IGNORE INTO metadata (key, value) VALUES ('last_sync', '0');
`
