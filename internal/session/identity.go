// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session derives and tracks chat session identity.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Scope fallbacks. A missing tenant means the global assistant; a missing
// user still needs a stable component so two anonymous terminals at the
// same millisecond do not collide on scope alone.
const (
	DefaultTenant = "global"
	DefaultUser   = "anonymous"
)

// =============================================================================
// IDENTITY
// =============================================================================

// Identity scopes one conversation to {tenant, context, user} plus the
// moment it was created. Immutable once created.
type Identity struct {
	TenantID   string
	ContextKey string
	UserID     string
	CreatedAt  time.Time
}

// lastMillis guards against two New calls in the same process landing on
// the same millisecond, which would otherwise produce colliding IDs for
// the same caller.
var (
	millisMu   sync.Mutex
	lastMillis int64
)

// New derives a session identity. Empty inputs never fail; they take the
// defined fallbacks instead. Different users never collide even at the
// same millisecond because the user component differs; repeat calls by
// one caller never collide because the time component is forced to
// advance.
func New(tenantID, contextKey, userID string) Identity {
	if tenantID == "" {
		tenantID = DefaultTenant
	}
	if userID == "" {
		userID = DefaultUser
	}

	millisMu.Lock()
	ms := time.Now().UnixMilli()
	if ms <= lastMillis {
		ms = lastMillis + 1
	}
	lastMillis = ms
	millisMu.Unlock()

	return Identity{
		TenantID:   tenantID,
		ContextKey: contextKey,
		UserID:     userID,
		CreatedAt:  time.UnixMilli(ms),
	}
}

// String returns the composite session identifier:
// riley_<tenant>[_<context>]_<user>_<unix-millis>.
func (id Identity) String() string {
	var b strings.Builder
	b.WriteString("riley_")
	b.WriteString(id.TenantID)
	if id.ContextKey != "" {
		b.WriteString("_")
		b.WriteString(id.ContextKey)
	}
	b.WriteString("_")
	b.WriteString(id.UserID)
	b.WriteString("_")
	b.WriteString(strconv.FormatInt(id.CreatedAt.UnixMilli(), 10))
	return b.String()
}

// IsZero reports whether the identity has not been created yet.
func (id Identity) IsZero() bool {
	return id.TenantID == "" && id.UserID == "" && id.CreatedAt.IsZero()
}

// ErrBadIdentity reports a string that is not a composite session
// identifier minted by this process.
var ErrBadIdentity = errors.New("not a session identifier")

// Parse recovers the scope parts from a composite identifier. Used by the
// sessions listing and the --session flag; it is best-effort and returns
// ErrBadIdentity for strings this process did not mint.
func Parse(s string) (Identity, error) {
	if !strings.HasPrefix(s, "riley_") {
		return Identity{}, fmt.Errorf("%w: %q", ErrBadIdentity, s)
	}
	parts := strings.Split(strings.TrimPrefix(s, "riley_"), "_")
	if len(parts) < 3 {
		return Identity{}, fmt.Errorf("%w: %q", ErrBadIdentity, s)
	}

	ms, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %q", ErrBadIdentity, s)
	}

	id := Identity{
		TenantID:  parts[0],
		UserID:    parts[len(parts)-2],
		CreatedAt: time.UnixMilli(ms),
	}
	if len(parts) == 4 {
		id.ContextKey = parts[1]
	}
	if len(parts) > 4 {
		// Scope parts that themselves contain underscores are ambiguous;
		// fold the middle back into the context key.
		id.ContextKey = strings.Join(parts[1:len(parts)-2], "_")
	}
	return id, nil
}
