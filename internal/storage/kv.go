// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/morganforge/riley-tui/internal/util"
)

// =============================================================================
// KV PORT
// =============================================================================

// KV is the persistence port for small UI preferences (dismissed welcome
// screen, last reply mode, layout choices). Callers depend on the port,
// not on a file, so tests substitute MemKV.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool)
	// Set stores a value. An empty value deletes the key.
	Set(key, value string) error
}

// =============================================================================
// FILE-BACKED KV
// =============================================================================

// FileKV stores keys as a flat JSON object in one file. Every Set
// rewrites the file atomically; the data is a handful of short strings,
// so rewriting is cheaper than being clever.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// PrefsPath returns the default UI preferences file (~/.riley/prefs.json).
func PrefsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".riley", "prefs.json"), nil
}

// OpenFileKV loads (or initializes) a file-backed store at path.
// A missing or corrupt file starts empty; preferences are recoverable
// state and must never block startup.
func OpenFileKV(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return kv, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &kv.data); err != nil {
		kv.data = make(map[string]string)
	}
	return kv, nil
}

func (kv *FileKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok
}

func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if value == "" {
		delete(kv.data, key)
	} else {
		kv.data[key] = value
	}

	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(kv.path), 0755); err != nil {
		return err
	}
	return util.AtomicWriteFile(kv.path, raw, 0644)
}

// =============================================================================
// IN-MEMORY KV
// =============================================================================

// MemKV is the in-memory KV used by tests and by callers that run
// without a home directory.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (kv *MemKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok
}

func (kv *MemKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if value == "" {
		delete(kv.data, key)
	} else {
		kv.data[key] = value
	}
	return nil
}
