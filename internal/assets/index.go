// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/citation"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotSynced     = errors.New("vault assets not synced")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// ASSET INDEX
// =============================================================================

// Index is the local cache of vault assets, used to resolve citation
// names without a round trip per reply.
type Index struct {
	db *sql.DB
	mu sync.RWMutex

	lastSync   time.Time
	assetCount int
}

// DefaultPath returns the default database location (~/.riley/vault.db).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".riley", "vault.db"), nil
}

// Open opens (creating if needed) the asset index at the given path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	idx := &Index{db: db}
	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	idx.loadStats()
	return idx, nil
}

// Close closes the underlying database.
func (idx *Index) Close() error {
	return idx.db.Close()
}

func (idx *Index) initSchema() error {
	if _, err := idx.db.Exec(Schema); err != nil {
		return err
	}
	_, err := idx.db.Exec(InitMetadata)
	return err
}

func (idx *Index) loadStats() {
	var count int
	if err := idx.db.QueryRow("SELECT COUNT(*) FROM assets").Scan(&count); err == nil {
		idx.assetCount = count
	}
	var lastSync string
	if err := idx.db.QueryRow("SELECT value FROM metadata WHERE key = 'last_sync'").Scan(&lastSync); err == nil {
		if secs, err := strconv.ParseInt(lastSync, 10, 64); err == nil && secs > 0 {
			idx.lastSync = time.Unix(secs, 0)
		}
	}
}

// =============================================================================
// SYNC
// =============================================================================

// Sync replaces the cached assets with the current vault listing.
// The swap is transactional so lookups never observe a half-synced cache.
func (idx *Index) Sync(ctx context.Context, client *api.Client) error {
	remote, err := client.ListAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list vault assets: %w", err)
	}
	return idx.Replace(remote)
}

// Replace swaps the cache contents for the given assets.
func (idx *Index) Replace(remote []api.VaultAsset) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM assets"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec("DELETE FROM assets_fts"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	now := time.Now().Unix()
	insert, err := tx.Prepare(
		"INSERT OR REPLACE INTO assets (id, name_norm, display_name, kind, campaign, synced_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer insert.Close()

	insertFTS, err := tx.Prepare("INSERT INTO assets_fts (display_name, asset_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer insertFTS.Close()

	inserted := 0
	for _, a := range remote {
		norm := citation.NormalizeName(a.DisplayName)
		if norm == "" {
			continue
		}
		inserted++
		if _, err := insert.Exec(a.ID, norm, a.DisplayName, a.Kind, a.Campaign, now); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		if _, err := insertFTS.Exec(a.DisplayName, a.ID); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if _, err := tx.Exec("UPDATE metadata SET value = ? WHERE key = 'last_sync'",
		strconv.FormatInt(now, 10)); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	idx.assetCount = inserted
	idx.lastSync = time.Unix(now, 0)
	return nil
}

// =============================================================================
// LOOKUP
// =============================================================================

// LookupByName resolves a citation display name to a cached asset.
// The name is normalized here, so callers may pass it exactly as cited.
// Satisfies citation.Index.
func (idx *Index) LookupByName(name string) (citation.Asset, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var a citation.Asset
	err := idx.db.QueryRow(
		"SELECT id, display_name, kind, campaign FROM assets WHERE name_norm = ?",
		citation.NormalizeName(name)).
		Scan(&a.ID, &a.DisplayName, &a.Kind, &a.Campaign)
	if err != nil {
		return citation.Asset{}, false
	}
	return a, true
}

// Search finds assets whose display name matches the query (FTS).
func (idx *Index) Search(query string, limit int) ([]citation.Asset, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := idx.db.Query(`
		SELECT a.id, a.display_name, a.kind, a.campaign
		FROM assets_fts f
		JOIN assets a ON a.id = f.asset_id
		WHERE assets_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []citation.Asset
	for rows.Next() {
		var a citation.Asset
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.Kind, &a.Campaign); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// =============================================================================
// STATS
// =============================================================================

// Stats reports cache freshness for status displays.
type Stats struct {
	AssetCount int
	LastSync   time.Time
}

// Stats returns current cache statistics.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{AssetCount: idx.assetCount, LastSync: idx.lastSync}
}

// IsStale reports whether the cache is older than maxAge (or never synced).
func (idx *Index) IsStale(maxAge time.Duration) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastSync.IsZero() || time.Since(idx.lastSync) > maxAge
}
