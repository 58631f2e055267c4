// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/morganforge/riley-tui/internal/util"
)

// =============================================================================
// APP STATE
// =============================================================================

// AppState is the small piece of cross-run state the TUI keeps: which
// session was last active and the operator's last-used knobs. It is a
// pointer into the session store, not a copy of it.
type AppState struct {
	ActiveSessionID string    `json:"active_session_id,omitempty"`
	Tenant          string    `json:"tenant,omitempty"`
	ContextKey      string    `json:"context_key,omitempty"`
	Mode            string    `json:"mode,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StatePath returns the app state file path (~/.riley/state.json).
func StatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".riley", "state.json"), nil
}

// LoadState reads the persisted app state. A missing file is not an
// error; callers get a zero state and start fresh.
func LoadState() (*AppState, error) {
	path, err := StatePath()
	if err != nil {
		return nil, err
	}
	return LoadStateFromPath(path)
}

// LoadStateFromPath reads app state from a specific file.
func LoadStateFromPath(path string) (*AppState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppState{}, nil
		}
		return nil, err
	}

	var st AppState
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt state file should never block startup.
		return &AppState{}, nil
	}
	return &st, nil
}

// SaveState persists the app state.
func SaveState(st *AppState) error {
	path, err := StatePath()
	if err != nil {
		return err
	}
	return SaveStateToPath(st, path)
}

// SaveStateToPath persists app state to a specific file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveStateToPath(st *AppState, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0644)
}
