// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package citation extracts vault-source citations from assistant text.
//
// Riley replies embed markers of the form [[Source: <display name>]]
// wherever a statement is backed by a vault asset. Parse splits a reply
// into ordered text and citation segments without losing a byte, so the
// transcript renderer can show citations as interactive references while
// Join reproduces the original text for export.
//
// Resolution against the local vault index is a separate, lossy step:
// activating a citation whose asset isn't indexed yet produces a
// recoverable notice, not an error.
package citation
