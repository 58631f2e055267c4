// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/morganforge/riley-tui/internal/util"
)

// =============================================================================
// SESSION RECORD TYPE
// =============================================================================

// SessionRecord is the locally persisted view of a chat session. Transcript
// content lives on the backend; the record keeps enough to list and resume.
type SessionRecord struct {
	// Identity
	ID         string `json:"id"`
	Tenant     string `json:"tenant"`
	ContextKey string `json:"context_key,omitempty"`
	UserID     string `json:"user_id"`

	// Session settings
	Mode string `json:"mode,omitempty"` // "fast" or "deep"

	// Activity
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	TurnCount  int       `json:"turn_count,omitempty"`

	// Preview is the first user query, truncated for listings.
	Preview string `json:"preview,omitempty"`
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore handles session record persistence.
type SessionStore struct {
	// BaseDir is the directory for storing session records
	// Default: ~/.riley/sessions/
	BaseDir string

	// MaxSessions limits stored records (0 = unlimited)
	MaxSessions int
}

// NewSessionStore creates a store rooted at ~/.riley/sessions.
func NewSessionStore() (*SessionStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewSessionStoreWithDir(filepath.Join(homeDir, ".riley", "sessions"))
}

// NewSessionStoreWithDir creates a store with a custom directory.
func NewSessionStoreWithDir(baseDir string) (*SessionStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &SessionStore{
		BaseDir:     baseDir,
		MaxSessions: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a session record.
func (s *SessionStore) Save(rec *SessionRecord) error {
	if rec.ID == "" {
		return ErrInvalidSessionID
	}

	rec.LastUsedAt = time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.LastUsedAt
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(s.filePath(rec.ID), data, 0644); err != nil {
		return err
	}

	if s.MaxSessions > 0 {
		s.enforceLimit()
	}
	return nil
}

// Touch updates a record's activity metadata without rewriting identity.
func (s *SessionStore) Touch(id string, turnCount int, preview string) error {
	rec, err := s.Load(id)
	if err != nil {
		return err
	}
	rec.TurnCount = turnCount
	if rec.Preview == "" && preview != "" {
		rec.Preview = util.TruncateRunes(strings.ReplaceAll(preview, "\n", " "), 80)
	}
	return s.Save(rec)
}

// enforceLimit removes the oldest records if over limit.
func (s *SessionStore) enforceLimit() {
	recs, err := s.List()
	if err != nil || len(recs) <= s.MaxSessions {
		return
	}

	// List is most recent first; trim from the tail.
	for _, rec := range recs[s.MaxSessions:] {
		s.Delete(rec.ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a session record by ID.
func (s *SessionStore) Load(id string) (*SessionRecord, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LoadByIndex loads a record by its position in the list (0 = most recent).
func (s *SessionStore) LoadByIndex(index int) (*SessionRecord, error) {
	recs, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(recs) {
		return nil, ErrSessionNotFound
	}
	return s.Load(recs[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved session records (most recently used first).
func (s *SessionStore) List() ([]*SessionRecord, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*SessionRecord{}, nil
		}
		return nil, err
	}

	var recs []*SessionRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		rec, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].LastUsedAt.After(recs[j].LastUsedAt)
	})
	return recs, nil
}

// ListByTenant returns records scoped to one campaign.
func (s *SessionStore) ListByTenant(tenant string) ([]*SessionRecord, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []*SessionRecord
	for _, rec := range all {
		if rec.Tenant == tenant {
			results = append(results, rec)
		}
	}
	return results, nil
}

// Search finds records whose preview matches a query string
// (case-insensitive).
func (s *SessionStore) Search(query string) ([]*SessionRecord, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []*SessionRecord
	for _, rec := range all {
		if strings.Contains(strings.ToLower(rec.Preview), query) ||
			strings.Contains(strings.ToLower(rec.ID), query) {
			results = append(results, rec)
		}
	}
	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a session record by ID.
func (s *SessionStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved session records.
func (s *SessionStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// filePath returns the file path for a session ID.
func (s *SessionStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrSessionNotFound is returned when a session record doesn't exist.
// Use errors.Is(err, ErrSessionNotFound) to check for this error.
var ErrSessionNotFound = &StoreError{Message: "session not found"}

// ErrInvalidSessionID is returned when a record has no ID.
var ErrInvalidSessionID = &StoreError{Message: "session record has no id"}

// StoreError represents a storage-related error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList formats session records for display as a table.
func FormatSessionList(recs []*SessionRecord) string {
	if len(recs) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("--------------------------------------------------------------------\n")
	sb.WriteString(formatPadded("Tenant", 14) + " " + formatPadded("Last used", 18) + " " + formatPadded("Turns", 6) + " Preview\n")
	sb.WriteString("--------------------------------------------------------------------\n")

	for _, rec := range recs {
		sb.WriteString(formatPadded(util.TruncateRunesNoEllipsis(rec.Tenant, 14), 14) + " " +
			formatPadded(rec.LastUsedAt.Format("2006-01-02 15:04"), 18) + " " +
			formatPadded(strconv.Itoa(rec.TurnCount), 6) + " " +
			util.TruncateRunes(rec.Preview, 40) + "\n")
	}
	return sb.String()
}

// formatPadded pads a string to the specified width with spaces.
func formatPadded(s string, width int) string {
	if pad := width - len([]rune(s)); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
