// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved session management for riley CLI.
//
// Command: sessions
// Short:   List, inspect, and delete saved sessions
// Aliases: session
//
// Examples:
//   riley sessions list
//   riley sessions show 1
//   riley sessions search "northern pass"
//   riley sessions delete 1
//   riley sessions clear
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/config"
	"github.com/morganforge/riley-tui/internal/storage"
)

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) error {
	store, err := storage.NewSessionStore()
	if err != nil {
		return &CommandError{Command: "sessions", Action: args.Subcommand, Reason: "session store unavailable", Err: err}
	}

	switch args.Subcommand {
	case "", "list", "ls", "l":
		return listSessions(store, args)
	case "show":
		return showSession(store, args)
	case "search":
		return searchSessions(store, args)
	case "delete", "rm":
		return deleteSession(store, args)
	case "clear", "delete-all":
		return clearSessions(store, args)
	default:
		return &UsageError{
			Command: "sessions [list|show|search|delete|clear]",
			Hint:    "Example: riley sessions list",
		}
	}
}

func listSessions(store *storage.SessionStore, args Args) error {
	var (
		recs []*storage.SessionRecord
		err  error
	)
	if args.Tenant != "" {
		recs, err = store.ListByTenant(args.Tenant)
	} else {
		recs, err = store.List()
	}
	if err != nil {
		return &CommandError{Command: "sessions", Action: "list", Reason: "could not read sessions", Err: err}
	}

	if args.JSON {
		return NewJSONResponse("sessions.list", recs).Print()
	}
	fmt.Println(storage.FormatSessionList(recs))
	return nil
}

func showSession(store *storage.SessionStore, args Args) error {
	if args.Session == "" {
		return &UsageError{Command: "sessions show <id>", Hint: "Use an index from `riley sessions list` or a full session identifier."}
	}

	rec, err := lookupSessionRecord(store, args.Session)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("sessions.show", rec).Print()
	}

	fmt.Println(TitleStyle.Render("Session"))
	fmt.Println(printKV("ID", rec.ID))
	fmt.Println(printKV("Tenant", rec.Tenant))
	if rec.ContextKey != "" {
		fmt.Println(printKV("Context", rec.ContextKey))
	}
	fmt.Println(printKV("User", rec.UserID))
	fmt.Println(printKV("Created", rec.CreatedAt.Format(time.RFC822)))
	fmt.Println(printKV("Last used", rec.LastUsedAt.Format(time.RFC822)))
	fmt.Println(printKV("Turns", fmt.Sprintf("%d", rec.TurnCount)))
	if rec.Preview != "" {
		fmt.Println(printKV("Preview", rec.Preview))
	}
	return nil
}

func searchSessions(store *storage.SessionStore, args Args) error {
	if args.Query == "" {
		return &UsageError{Command: "sessions search <query>", Hint: `Example: riley sessions search "northern pass"`}
	}

	recs, err := store.Search(args.Query)
	if err != nil {
		return &CommandError{Command: "sessions", Action: "search", Reason: "search failed", Err: err}
	}

	if args.JSON {
		return NewJSONResponse("sessions.search", recs).Print()
	}
	if len(recs) == 0 {
		fmt.Println(DimStyle.Render("No sessions match."))
		return nil
	}
	fmt.Println(storage.FormatSessionList(recs))
	return nil
}

func deleteSession(store *storage.SessionStore, args Args) error {
	if args.Session == "" {
		return &UsageError{Command: "sessions delete <id>", Hint: "Use an index from `riley sessions list` or a full session identifier."}
	}

	rec, err := lookupSessionRecord(store, args.Session)
	if err != nil {
		return err
	}

	// Best effort: also clear the backend transcript for this session.
	clearRemoteSession(rec.ID)

	if err := store.Delete(rec.ID); err != nil {
		return &CommandError{Command: "sessions", Action: "delete", Reason: "could not delete session", Err: err}
	}
	fmt.Println(SuccessStyle.Render("Deleted " + rec.ID))
	return nil
}

func clearSessions(store *storage.SessionStore, args Args) error {
	recs, err := store.List()
	if err != nil {
		return &CommandError{Command: "sessions", Action: "clear", Reason: "could not read sessions", Err: err}
	}
	for _, rec := range recs {
		clearRemoteSession(rec.ID)
	}
	if err := store.Clear(); err != nil {
		return &CommandError{Command: "sessions", Action: "clear", Reason: "could not clear sessions", Err: err}
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Deleted %d session(s).", len(recs))))
	return nil
}

// clearRemoteSession asks the backend to drop a session transcript.
// Missing tokens and 404s are fine; the local record is authoritative
// for this command.
func clearRemoteSession(sessionID string) {
	cfg := config.Global()
	if cfg.API.Token == "" {
		return
	}
	client := api.NewClient(cfg.API.BaseURL, api.StaticToken(cfg.API.Token), cfg.API.Tenant)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	_ = client.ClearSession(ctx, sessionID)
}
