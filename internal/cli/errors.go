// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for riley CLI commands.
//
// Every handler returns an error; main decides how to display it and
// which exit code to use.
package cli

import (
	"errors"
	"fmt"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates a missing or rejected bearer token
	ExitAuthError = 4
	// ExitNetworkError indicates the backend was unreachable
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
)

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "sessions", "sync")
	Action  string // Action being performed (e.g., "list", "delete")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError represents invalid command usage.
type UsageError struct {
	Command string
	Hint    string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: riley %s\n%s", e.Command, e.Hint)
}

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}
	if errors.Is(err, api.ErrNoToken) {
		return ExitAuthError
	}
	if errors.Is(err, storage.ErrSessionNotFound) || api.IsNotFound(err) {
		return ExitNotFoundError
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == 401 || apiErr.Status == 403 {
			return ExitAuthError
		}
		return ExitNetworkError
	}

	return ExitGeneralError
}
