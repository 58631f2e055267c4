// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run wizard for riley.
//
// Command: setup
// Short:   First-run setup wizard
// Aliases: init
//
// Examples:
//   riley setup          Run the interactive wizard
//   riley setup token    Update only the API token
//
// The wizard walks through:
//   1. Backend URL
//   2. Bearer token (read without echo)
//   3. Tenant, context, and user identity
//   4. Default assistant mode
//   5. A connectivity check against the vault listing
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/config"
)

// HandleSetup handles the "setup" command.
func HandleSetup(args Args) error {
	if !IsTTY() {
		return &CommandError{Command: "setup", Action: "run", Reason: "setup requires an interactive terminal"}
	}

	switch args.Subcommand {
	case "", "wizard":
		return runSetupWizard()
	case "token":
		return runTokenSetup()
	default:
		return &UsageError{Command: "setup [token]", Hint: "Run `riley setup` for the full wizard."}
	}
}

func runSetupWizard() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	fmt.Println(TitleStyle.Render("riley setup"))
	fmt.Println(DimStyle.Render("Press Enter to keep the value shown in brackets."))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	cfg.API.BaseURL = promptString(reader, "Backend URL", cfg.API.BaseURL)

	token, err := promptToken(cfg.API.Token != "")
	if err != nil {
		return err
	}
	if token != "" {
		cfg.API.Token = token
	}

	cfg.API.Tenant = promptString(reader, "Tenant (campaign)", cfg.API.Tenant)
	cfg.API.DefaultContext = promptString(reader, "Default context (blank for global)", cfg.API.DefaultContext)
	cfg.API.UserID = promptString(reader, "User ID", cfg.API.UserID)

	mode := promptString(reader, "Default mode (fast/deep)", cfg.API.Mode)
	cfg.API.Mode = string(api.ParseMode(mode))

	if err := cfg.Validate(); err != nil {
		return &CommandError{Command: "setup", Action: "validate", Reason: "configuration invalid", Err: err}
	}
	if err := config.Save(cfg); err != nil {
		return &CommandError{Command: "setup", Action: "save", Reason: "could not write config", Err: err}
	}
	config.SetGlobal(cfg)

	path, _ := config.ConfigPathTOML()
	fmt.Println()
	fmt.Println(SuccessStyle.Render("Configuration saved to " + path))

	checkConnectivity(cfg)
	return nil
}

// runTokenSetup updates only the bearer token.
func runTokenSetup() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	token, err := promptToken(cfg.API.Token != "")
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Println(DimStyle.Render("Token unchanged."))
		return nil
	}

	cfg.API.Token = token
	if err := config.Save(cfg); err != nil {
		return &CommandError{Command: "setup", Action: "save", Reason: "could not write config", Err: err}
	}
	config.SetGlobal(cfg)

	fmt.Println(SuccessStyle.Render("Token updated."))
	checkConnectivity(cfg)
	return nil
}

// promptString reads a line, returning the default when empty.
func promptString(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", PromptStyle.Render(label), def)
	} else {
		fmt.Printf("%s: ", PromptStyle.Render(label))
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// promptToken reads the bearer token without echoing it. The token is
// never printed back; status output always shows it redacted.
func promptToken(hasExisting bool) (string, error) {
	label := "API token"
	if hasExisting {
		label = "API token (blank to keep current)"
	}
	fmt.Printf("%s: ", PromptStyle.Render(label))

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", &CommandError{Command: "setup", Action: "token", Reason: "could not read token", Err: err}
	}
	return strings.TrimSpace(string(raw)), nil
}

// checkConnectivity verifies the saved credentials against the vault
// listing. Failures are reported but do not fail setup; the backend
// may simply be unreachable right now.
func checkConnectivity(cfg *config.Config) {
	if cfg.API.Token == "" {
		fmt.Println(WarnStyle.Render("No token configured; skipping connectivity check."))
		return
	}

	client := api.NewClient(cfg.API.BaseURL, api.StaticToken(cfg.API.Token), cfg.API.Tenant)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assets, err := client.ListAssets(ctx)
	if err != nil {
		fmt.Println(WarnStyle.Render("Could not reach the backend: " + err.Error()))
		fmt.Println(DimStyle.Render("Check the URL and token, then run `riley status`."))
		return
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Connected. %d vault asset(s) visible.", len(assets))))
}
