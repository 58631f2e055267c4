// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration command handlers for riley CLI.
//
// Command: config
// Short:   Show and edit configuration
//
// Examples:
//   riley config show
//   riley config path
//   riley config get api.mode
//   riley config set api.mode deep
//   riley config set reveal.enabled false
//
// SECURITY: `config show` and `config get` never print the API token;
// it is always redacted. Use `riley setup token` to change it.
package cli

import (
	"fmt"
	"strings"

	"github.com/morganforge/riley-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(args)
	case "path":
		return showConfigPath(args)
	case "get":
		return getConfigValue(args)
	case "set":
		return setConfigValue(args)
	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Println(key)
		}
		return nil
	default:
		return &UsageError{
			Command: "config [show|path|get|set|keys]",
			Hint:    "Example: riley config set api.mode deep",
		}
	}
}

func showConfig(args Args) error {
	cfg := config.Global()

	if args.JSON {
		// String() redacts the token before marshaling.
		fmt.Println(cfg.String())
		return nil
	}

	fmt.Println(TitleStyle.Render("riley configuration"))
	fmt.Println(SectionStyle.Render("API"))
	fmt.Println(printKV("Base URL", cfg.API.BaseURL))
	fmt.Println(printKV("Token", redactToken(cfg.API.Token)))
	fmt.Println(printKV("Tenant", cfg.API.Tenant))
	if cfg.API.DefaultContext != "" {
		fmt.Println(printKV("Context", cfg.API.DefaultContext))
	}
	fmt.Println(printKV("User ID", cfg.API.UserID))
	fmt.Println(printKV("Mode", cfg.API.Mode))
	fmt.Println(printKV("Timeout", fmt.Sprintf("%ds", cfg.API.TimeoutSecs)))

	fmt.Println(SectionStyle.Render("Reveal"))
	fmt.Println(printKV("Enabled", fmt.Sprintf("%t", cfg.Reveal.Enabled)))
	fmt.Println(printKV("Word mode", fmt.Sprintf("%t", cfg.Reveal.WordMode)))
	fmt.Println(printKV("Chunk", fmt.Sprintf("%d", cfg.Reveal.Chunk)))
	fmt.Println(printKV("Interval", fmt.Sprintf("%dms", cfg.Reveal.IntervalMs)))

	fmt.Println(SectionStyle.Render("UI"))
	fmt.Println(printKV("Theme", cfg.UI.Theme))
	fmt.Println(printKV("Show sources", fmt.Sprintf("%t", cfg.UI.ShowSources)))

	fmt.Println(SectionStyle.Render("Storage"))
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = "~/.riley (default)"
	}
	fmt.Println(printKV("Directory", dir))
	fmt.Println(printKV("Asset cache", fmt.Sprintf("%t", cfg.Storage.AssetCacheEnabled)))
	return nil
}

func showConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return &CommandError{Command: "config", Action: "path", Reason: "could not resolve config path", Err: err}
	}
	if args.JSON {
		return NewJSONResponse("config.path", map[string]string{"path": path}).Print()
	}
	fmt.Println(path)
	return nil
}

func getConfigValue(args Args) error {
	if args.ConfigKey == "" {
		return &UsageError{Command: "config get <key>", Hint: "Run `riley config keys` for the full list."}
	}

	cfg := config.Global()
	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return &CommandError{Command: "config", Action: "get", Reason: "unknown key", Err: err}
	}

	if strings.Contains(args.ConfigKey, "token") {
		value = redactToken(fmt.Sprintf("%v", value))
	}

	if args.JSON {
		return NewJSONResponse("config.get", map[string]interface{}{args.ConfigKey: value}).Print()
	}
	fmt.Printf("%v\n", value)
	return nil
}

func setConfigValue(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return &UsageError{Command: "config set <key> <value>", Hint: "Example: riley config set api.mode deep"}
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return &CommandError{Command: "config", Action: "set", Reason: "could not set value", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return &CommandError{Command: "config", Action: "set", Reason: "resulting configuration invalid", Err: err}
	}
	if err := config.Save(cfg); err != nil {
		return &CommandError{Command: "config", Action: "set", Reason: "could not write config", Err: err}
	}
	config.SetGlobal(cfg)

	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Set %s", args.ConfigKey)))
	return nil
}

// redactToken masks a bearer token for display.
func redactToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	return "[REDACTED]"
}
