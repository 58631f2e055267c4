// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for riley.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdConfig
	CmdSetup
	CmdStatus
	CmdSync
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format
	Tenant  string
	Context string
	Mode    string // "fast" or "deep"

	// Command-specific
	Query      string
	Session    string // session identifier or list index
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `riley - campaign assistant for your terminal

Riley answers questions about your campaigns and cites the vault files
it consulted. Replies arrive through the shared Riley backend; a local
sqlite cache of vault assets keeps citation lookups fast.

Usage:
  riley                        Start the TUI (default)
  riley ask "question"         Ask a single question and exit
  riley chat                   Interactive chat in plain terminal mode
  riley sessions [subcommand]  Saved session management
  riley config [show|set]      Configuration
  riley setup                  First-run wizard (backend URL, token, tenant)
  riley sync                   Refresh the local vault asset cache
  riley status                 Show connection and cache status

Session Commands:
  riley sessions list          List saved sessions (newest first)
  riley sessions show <id>     Show a saved session record
  riley sessions search <q>    Search session previews
  riley sessions delete <id>   Delete a saved session
  riley sessions clear         Delete all saved sessions

Config Commands:
  riley config show            Show current configuration (token redacted)
  riley config path            Show config file location
  riley config get <key>       Read one value (e.g. api.mode)
  riley config set <key> <val> Write one value

Global Flags:
  --tenant NAME     Override the campaign tenant for this invocation
  --context NAME    Override the session context key
  --mode fast|deep  Assistant effort for ask/chat
  --session ID      Continue a saved session (ask/chat)
  --json            Machine-readable output where supported
  -q, --quiet       Minimal output
  -v, --verbose     Debug output

Examples:
  riley ask "Who holds the northern pass?"
  riley ask --mode deep "Summarize our supply situation"
  riley ask --tenant winterfell "What did the scouts report?"
  riley chat --session 1
  riley sessions list
  riley config set api.mode deep
  riley sync

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("riley version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args defaults to the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "session", "sessions":
		parseSessionArgs(&parsedArgs, remaining)
		return CmdSessions, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "setup", "init":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdSetup, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "sync", "vault":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdSync, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command - treat the whole line as a question so that
		// `riley who holds the pass` still works.
		parsedArgs.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--tenant":
			if i+1 < len(args) {
				i++
				parsedArgs.Tenant = args[i]
			}
		case "--context":
			if i+1 < len(args) {
				i++
				parsedArgs.Context = args[i]
			}
		case "--mode":
			if i+1 < len(args) {
				i++
				parsedArgs.Mode = args[i]
			}
		case "--session":
			if i+1 < len(args) {
				i++
				parsedArgs.Session = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--tenant="):
				parsedArgs.Tenant = strings.TrimPrefix(arg, "--tenant=")
			case strings.HasPrefix(arg, "--context="):
				parsedArgs.Context = strings.TrimPrefix(arg, "--context=")
			case strings.HasPrefix(arg, "--mode="):
				parsedArgs.Mode = strings.TrimPrefix(arg, "--mode=")
			case strings.HasPrefix(arg, "--session="):
				parsedArgs.Session = strings.TrimPrefix(arg, "--session=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs collects the free-form question, skipping flag-looking args.
func parseAskArgs(args *Args, remaining []string) {
	var query []string
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch arg {
		case "-m", "--mode":
			if i+1 < len(remaining) {
				i++
				args.Mode = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--mode="):
				args.Mode = strings.TrimPrefix(arg, "--mode=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
	}
	args.Query = strings.Join(query, " ")
}

// parseSessionArgs parses sessions command specific arguments.
func parseSessionArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
	if len(remaining) > 1 {
		args.Session = remaining[1]
		args.Query = strings.Join(remaining[1:], " ")
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}

// =============================================================================
// SIMPLE HANDLERS
// =============================================================================

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		resp := NewJSONResponse("version", data)
		resp.Print()
		return
	}
	PrintVersion()
}

// VersionData is the payload for `riley version --json`.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
