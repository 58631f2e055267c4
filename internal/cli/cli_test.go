// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

// parseArgs runs Parse against a synthetic os.Args.
func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"riley"}, argv...)
	defer func() { os.Args = orig }()
	return Parse()
}

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parseArgs(t)
	if cmd != CmdTUI {
		t.Errorf("no args should start the TUI, got %d", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"ask", "hello"}, CmdAsk},
		{[]string{"chat"}, CmdChat},
		{[]string{"sessions", "list"}, CmdSessions},
		{[]string{"session", "list"}, CmdSessions},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"setup"}, CmdSetup},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"sync"}, CmdSync},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}

	for _, tt := range tests {
		cmd, _ := parseArgs(t, tt.argv...)
		if cmd != tt.want {
			t.Errorf("Parse(%v) = %d, want %d", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs(t, "--tenant", "winterfell", "--mode=deep", "--json", "ask", "who", "holds", "the", "pass")
	if cmd != CmdAsk {
		t.Fatalf("cmd = %d, want CmdAsk", cmd)
	}
	if args.Tenant != "winterfell" {
		t.Errorf("Tenant = %q", args.Tenant)
	}
	if args.Mode != "deep" {
		t.Errorf("Mode = %q", args.Mode)
	}
	if !args.JSON {
		t.Error("JSON flag not parsed")
	}
	if args.Query != "who holds the pass" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseBareQuestionBecomesAsk(t *testing.T) {
	cmd, args := parseArgs(t, "who", "holds", "the", "northern", "pass")
	if cmd != CmdAsk {
		t.Fatalf("bare words should route to ask, got %d", cmd)
	}
	if args.Query != "who holds the northern pass" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseSessionSubcommand(t *testing.T) {
	_, args := parseArgs(t, "sessions", "delete", "3")
	if args.Subcommand != "delete" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if args.Session != "3" {
		t.Errorf("Session = %q", args.Session)
	}
}

func TestParseConfigSet(t *testing.T) {
	_, args := parseArgs(t, "config", "set", "api.mode", "deep")
	if args.Subcommand != "set" || args.ConfigKey != "api.mode" || args.ConfigVal != "deep" {
		t.Errorf("config set parsed as %+v", args)
	}
}

func TestGetExitCode(t *testing.T) {
	if got := GetExitCode(nil); got != ExitSuccess {
		t.Errorf("nil error exit = %d", got)
	}
	if got := GetExitCode(&UsageError{Command: "x"}); got != ExitUsageError {
		t.Errorf("usage error exit = %d", got)
	}
}

func TestRedactToken(t *testing.T) {
	if redactToken("") != "(not set)" {
		t.Error("empty token should show as unset")
	}
	got := redactToken("sk-very-secret")
	if got != "[REDACTED]" {
		t.Errorf("token leaked: %q", got)
	}
}
