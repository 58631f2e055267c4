// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileKVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	kv, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("OpenFileKV: %v", err)
	}

	if _, ok := kv.Get("welcome_seen"); ok {
		t.Error("fresh store should not contain keys")
	}

	if err := kv.Set("welcome_seen", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("mode", "deep"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Reopen from disk; values must survive the round trip.
	kv2, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	if v, ok := kv2.Get("welcome_seen"); !ok || v != "1" {
		t.Errorf("welcome_seen = %q, %v; want %q, true", v, ok, "1")
	}
	if v, ok := kv2.Get("mode"); !ok || v != "deep" {
		t.Errorf("mode = %q, %v; want %q, true", v, ok, "deep")
	}
}

func TestFileKVEmptyValueDeletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	kv, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("OpenFileKV: %v", err)
	}

	if err := kv.Set("mode", "fast"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("mode", ""); err != nil {
		t.Fatalf("Set empty: %v", err)
	}

	if _, ok := kv.Get("mode"); ok {
		t.Error("empty Set should delete the key")
	}
}

func TestFileKVCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	kv, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("OpenFileKV on corrupt file: %v", err)
	}
	if _, ok := kv.Get("anything"); ok {
		t.Error("corrupt file should load as empty")
	}
}

func TestMemKVSubstitutesForFile(t *testing.T) {
	var kv KV = NewMemKV()

	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := kv.Get("k"); !ok || v != "v" {
		t.Errorf("Get = %q, %v; want %q, true", v, ok, "v")
	}

	if err := kv.Set("k", ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := kv.Get("k"); ok {
		t.Error("deleted key still present")
	}
}
