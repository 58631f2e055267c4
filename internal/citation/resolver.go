// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package citation

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// RESOLUTION
// =============================================================================

// Asset is the minimal view of a vault asset a citation can resolve to.
type Asset struct {
	ID          string
	DisplayName string
	Kind        string
	Campaign    string
}

// Index is the asset lookup a resolver consults. Implemented by the
// sqlite-backed vault cache; tests substitute a map. Implementations
// must accept display names exactly as cited and normalize internally,
// so every caller gets the same match behavior.
type Index interface {
	LookupByName(name string) (Asset, bool)
}

// Resolver maps citation display names to vault assets. A miss is a
// recoverable notice for the user, never an error that interrupts chat.
type Resolver struct {
	index Index
}

// NewResolver creates a resolver over the given asset index.
func NewResolver(index Index) *Resolver {
	return &Resolver{index: index}
}

// Resolve looks up a citation's display name. The ok result is false on
// a miss; notice then carries the user-facing text for a toast.
func (r *Resolver) Resolve(name string) (asset Asset, notice string, ok bool) {
	if r.index != nil {
		if a, found := r.index.LookupByName(NormalizeName(name)); found {
			return a, "", true
		}
	}
	return Asset{}, fmt.Sprintf("Source %q isn't in your vault yet", name), false
}

// NormalizeName canonicalizes a display name for comparison: NFC
// normalization, case folding, and trimmed whitespace. Backend-rendered
// names and locally indexed names can differ in all three.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}
