// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assets

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/morganforge/riley-tui/internal/api"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func seedAssets(t *testing.T, idx *Index) {
	t.Helper()
	err := idx.Replace([]api.VaultAsset{
		{ID: "a1", DisplayName: "Northern-Pass.md", Kind: "document", Campaign: "alderaan"},
		{ID: "a2", DisplayName: "Volunteer Roster.xlsx", Kind: "sheet", Campaign: "alderaan"},
		{ID: "a3", DisplayName: "Café Notes.md", Kind: "document", Campaign: "hoth"},
	})
	if err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
}

func TestLookupByName(t *testing.T) {
	idx := newTestIndex(t)
	seedAssets(t, idx)

	tests := []struct {
		name   string
		lookup string
		wantID string
		wantOK bool
	}{
		{"exact", "Northern-Pass.md", "a1", true},
		{"case insensitive", "NORTHERN-PASS.MD", "a1", true},
		{"surrounding space", "  Northern-Pass.md ", "a1", true},
		{"with spaces in name", "Volunteer Roster.xlsx", "a2", true},
		{"unicode", "café notes.md", "a3", true},
		{"miss", "Ghost-File.md", "", false},
	}

	// Names are passed exactly as cited; the index normalizes
	// internally, so raw-cased and padded forms must all resolve.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, ok := idx.LookupByName(tt.lookup)
			if ok != tt.wantOK {
				t.Fatalf("LookupByName(%q) ok = %v, want %v", tt.lookup, ok, tt.wantOK)
			}
			if ok && asset.ID != tt.wantID {
				t.Errorf("LookupByName(%q) id = %q, want %q", tt.lookup, asset.ID, tt.wantID)
			}
		})
	}
}

func TestReplaceSwapsWholesale(t *testing.T) {
	idx := newTestIndex(t)
	seedAssets(t, idx)

	err := idx.Replace([]api.VaultAsset{
		{ID: "b1", DisplayName: "Fresh-Brief.md", Kind: "brief", Campaign: "alderaan"},
	})
	if err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	if _, ok := idx.LookupByName("Northern-Pass.md"); ok {
		t.Error("old asset should be gone after Replace")
	}
	if _, ok := idx.LookupByName("Fresh-Brief.md"); !ok {
		t.Error("new asset missing after Replace")
	}
	if got := idx.Stats().AssetCount; got != 1 {
		t.Errorf("AssetCount = %d, want 1", got)
	}
}

func TestSearch(t *testing.T) {
	idx := newTestIndex(t)
	seedAssets(t, idx)

	results, err := idx.Search("volunteer", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a2" {
		t.Errorf("Search(volunteer) = %+v, want the roster", results)
	}
}

func TestStatsAndStaleness(t *testing.T) {
	idx := newTestIndex(t)

	if !idx.IsStale(time.Hour) {
		t.Error("never-synced index should be stale")
	}

	seedAssets(t, idx)
	if idx.IsStale(time.Hour) {
		t.Error("freshly synced index should not be stale")
	}
	if idx.Stats().LastSync.IsZero() {
		t.Error("LastSync should be set after Replace")
	}
}

func TestReopenKeepsAssets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	idx, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := idx.Replace([]api.VaultAsset{
		{ID: "a1", DisplayName: "Northern-Pass.md", Kind: "document", Campaign: "alderaan"},
	}); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	idx.Close()

	idx, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer idx.Close()

	if _, ok := idx.LookupByName("Northern-Pass.md"); !ok {
		t.Error("assets should survive reopen")
	}
	if got := idx.Stats().AssetCount; got != 1 {
		t.Errorf("AssetCount after reopen = %d, want 1", got)
	}
}

func TestSkipsBlankNames(t *testing.T) {
	idx := newTestIndex(t)

	err := idx.Replace([]api.VaultAsset{
		{ID: "a1", DisplayName: "   ", Kind: "document"},
		{ID: "a2", DisplayName: "Real.md", Kind: "document"},
	})
	if err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if got := idx.Stats().AssetCount; got != 1 {
		t.Errorf("AssetCount = %d, want 1 (blank name skipped)", got)
	}
	if _, ok := idx.LookupByName(""); ok {
		t.Error("blank name should never resolve")
	}
}
