// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of riley.
//
// The binary defaults to the full-screen TUI; this package covers
// everything else: one-shot questions (ask), a plain-terminal REPL
// (chat), saved session management, configuration, the first-run
// wizard, vault cache sync, and status.
//
// # Conventions
//
// Every handler returns an error. main maps errors to exit codes via
// GetExitCode; handlers never call os.Exit themselves. Commands that
// support --json emit a JSONResponse envelope on stdout and keep
// human-readable chatter on stderr.
//
// Colors follow TTY detection: piped output is plain text, NO_COLOR
// and FORCE_COLOR are respected. The bearer token is never printed;
// display paths go through redactToken.
package cli
