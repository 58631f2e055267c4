// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for riley CLI.
//
// Handles the "riley ask" command which sends one question to the
// backend and prints the reply to stdout.
//
// Command: ask [question]
// Short:   Ask a single question
//
// Examples:
//   riley ask "Who holds the northern pass?"
//   riley ask --mode deep "Summarize our supply situation"
//   riley ask --session 1 "And what about the eastern road?"
//   riley ask --json "List open questions" | jq .data.response
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/assets"
	"github.com/morganforge/riley-tui/internal/citation"
	"github.com/morganforge/riley-tui/internal/config"
	"github.com/morganforge/riley-tui/internal/session"
	"github.com/morganforge/riley-tui/internal/storage"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for markdown output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails.
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// askResponseData is the `--json` payload for a single exchange.
type askResponseData struct {
	SessionID    string   `json:"session_id"`
	Mode         string   `json:"mode"`
	Response     string   `json:"response"`
	Sources      []string `json:"sources,omitempty"`
	SourcesCount int      `json:"sources_count"`
	ElapsedMs    int64    `json:"elapsed_ms"`
}

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return &UsageError{
			Command: `ask "question"`,
			Hint:    `Example: riley ask "Who holds the northern pass?"`,
		}
	}

	cfg := config.Global()
	applyArgOverrides(cfg, args)

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	id, err := resolveSessionIdentity(cfg, args)
	if err != nil {
		return err
	}

	mode := api.ParseMode(cfg.API.Mode)
	if args.Mode != "" {
		mode = api.ParseMode(args.Mode)
	}

	timeout := api.DefaultTimeout
	if cfg.API.TimeoutSecs > 0 {
		timeout = time.Duration(cfg.API.TimeoutSecs) * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	resp, err := client.Chat(ctx, query, id.String(), mode)
	if err != nil {
		return &CommandError{Command: "ask", Action: "chat", Reason: "request failed", Err: err}
	}
	elapsed := time.Since(start)

	names := citation.Names(citation.Parse(resp.Response))

	if args.JSON {
		return NewJSONResponse("ask", askResponseData{
			SessionID:    id.String(),
			Mode:         string(mode),
			Response:     resp.Response,
			Sources:      names,
			SourcesCount: resp.SourcesCount,
			ElapsedMs:    elapsed.Milliseconds(),
		}).Print()
	}

	printResponse(resp.Response, resp.SourcesCount, args.Quiet)
	rememberExchange(id, query)
	return nil
}

// printResponse renders a reply for the terminal. Citation markers are
// rewritten to bracketed source names before markdown rendering so the
// wire syntax never reaches the user.
func printResponse(response string, sourcesCount int, quiet bool) {
	display := annotateCitations(response)

	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(display))
	} else {
		fmt.Println(display)
	}

	if quiet || sourcesCount <= 0 {
		return
	}
	noun := "source"
	if sourcesCount != 1 {
		noun = "sources"
	}
	fmt.Println(DimStyle.Render(strconv.Itoa(sourcesCount) + " vault " + noun + " consulted"))
}

// annotateCitations rewrites citation markers as readable [name]
// references, flagging names the local vault cache does not know.
func annotateCitations(response string) string {
	segments := citation.Parse(response)

	idx := openVaultIndex()
	if idx != nil {
		defer idx.Close()
	}

	var b strings.Builder
	for _, seg := range segments {
		if seg.Kind == citation.KindText {
			b.WriteString(seg.Text)
			continue
		}
		name := seg.Name
		if idx != nil {
			if asset, ok := idx.LookupByName(name); ok {
				name = asset.DisplayName
			} else {
				name += "?"
			}
		}
		b.WriteString("[" + name + "]")
	}
	return b.String()
}

// openVaultIndex opens the local asset cache read-only for citation
// resolution. Returns nil when the cache is disabled or unavailable;
// citations then print unverified.
func openVaultIndex() *assets.Index {
	cfg := config.Global()
	if !cfg.Storage.AssetCacheEnabled {
		return nil
	}
	path, err := assets.DefaultPath()
	if err != nil {
		return nil
	}
	idx, err := assets.Open(path)
	if err != nil {
		return nil
	}
	return idx
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// applyArgOverrides layers per-invocation flags over the loaded config.
func applyArgOverrides(cfg *config.Config, args Args) {
	if args.Tenant != "" {
		cfg.API.Tenant = args.Tenant
	}
	if args.Context != "" {
		cfg.API.DefaultContext = args.Context
	}
	if args.Mode != "" {
		cfg.API.Mode = args.Mode
	}
}

// buildClient constructs an API client from config, refusing to start
// without a token so the failure is a clear auth error instead of a 401.
func buildClient(cfg *config.Config) (*api.Client, error) {
	if cfg.API.Token == "" {
		return nil, fmt.Errorf("no API token configured (run `riley setup`): %w", api.ErrNoToken)
	}
	client := api.NewClient(cfg.API.BaseURL, api.StaticToken(cfg.API.Token), cfg.API.Tenant)
	if cfg.API.TimeoutSecs > 0 {
		client = client.WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
	}
	return client, nil
}

// resolveSessionIdentity picks the session to speak in: an explicit
// --session reference, or a fresh identity for this invocation.
func resolveSessionIdentity(cfg *config.Config, args Args) (session.Identity, error) {
	if args.Session == "" {
		return session.New(cfg.API.Tenant, cfg.API.DefaultContext, cfg.API.UserID), nil
	}

	store, err := storage.NewSessionStore()
	if err != nil {
		return session.Identity{}, &CommandError{Command: "ask", Action: "session", Reason: "session store unavailable", Err: err}
	}

	rec, err := lookupSessionRecord(store, args.Session)
	if err != nil {
		return session.Identity{}, err
	}

	id, err := session.Parse(rec.ID)
	if err != nil {
		return session.Identity{}, &CommandError{Command: "ask", Action: "session", Reason: "saved session has a malformed identifier", Err: err}
	}
	return id, nil
}

// lookupSessionRecord resolves a session reference that is either a
// full identifier or a 1-based index into `riley sessions list`.
func lookupSessionRecord(store *storage.SessionStore, ref string) (*storage.SessionRecord, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		rec, err := store.LoadByIndex(n - 1)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	return store.Load(ref)
}

// rememberExchange saves the session record so TUI and CLI share one
// session list. Failures are non-fatal; the reply already printed.
func rememberExchange(id session.Identity, query string) {
	store, err := storage.NewSessionStore()
	if err != nil {
		return
	}

	rec := &storage.SessionRecord{
		ID:         id.String(),
		Tenant:     id.TenantID,
		ContextKey: id.ContextKey,
		UserID:     id.UserID,
		CreatedAt:  id.CreatedAt,
	}
	store.Save(rec)

	preview := query
	if len(preview) > 80 {
		preview = preview[:80]
	}
	store.Touch(id.String(), 2, preview)
}
