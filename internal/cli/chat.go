// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for riley CLI.
//
// Handles the "riley chat" command: a plain-terminal REPL for
// environments where the full TUI is unwanted (ssh sessions, scripts
// with a pty, minimal terminals).
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   riley chat                     Start a fresh chat
//   riley chat --session 1         Continue the most recent session
//   riley chat --tenant winterfell Chat inside a specific campaign
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /new                Start a fresh session
//   /clear              Clear the session on the backend
//   /mode [fast|deep]   Show or switch assistant effort
//   /sessions           List saved sessions
//   /quit, /q           Exit chat
//   Ctrl+C              Abort input
//   Ctrl+D              Exit chat
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/morganforge/riley-tui/internal/api"
	"github.com/morganforge/riley-tui/internal/config"
	"github.com/morganforge/riley-tui/internal/session"
	"github.com/morganforge/riley-tui/internal/storage"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

func (c *ChatCLI) saveHistory() {
	if f, err := os.Create(c.historyFile); err == nil {
		c.line.WriteHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// chatSession holds the REPL state for one `riley chat` run.
type chatSession struct {
	cfg    *config.Config
	client *api.Client
	store  *storage.SessionStore
	id     session.Identity
	mode   api.Mode
	turns  int
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
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

	s := &chatSession{
		cfg:    cfg,
		client: client,
		id:     id,
		mode:   api.ParseMode(cfg.API.Mode),
	}
	if store, err := storage.NewSessionStore(); err == nil {
		s.store = store
	}

	if !IsTTY() {
		// Piped input: read queries line by line, no prompt or history.
		return s.runPiped()
	}
	return s.runInteractive(args.Quiet)
}

// runInteractive runs the liner-backed REPL.
func (s *chatSession) runInteractive(quiet bool) error {
	cli := NewChatCLI()
	defer cli.Close()

	if !quiet {
		s.printBanner()
	}

	for {
		input, err := cli.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted || errors.Is(err, io.EOF) {
				fmt.Println(DimStyle.Render("bye"))
				return nil
			}
			return &CommandError{Command: "chat", Action: "read", Reason: "input failed", Err: err}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := s.handleCommand(input)
			if err != nil {
				fmt.Println(ErrStyle.Render("! " + err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		s.exchange(input)
	}
}

// runPiped answers each line of stdin and exits at EOF.
func (s *chatSession) runPiped() error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		s.exchange(query)
	}
	return scanner.Err()
}

// exchange submits one query and prints the reply. Errors print as
// replies rather than killing the REPL; the user can just try again.
func (s *chatSession) exchange(query string) {
	timeout := api.DefaultTimeout
	if s.cfg.API.TimeoutSecs > 0 {
		timeout = time.Duration(s.cfg.API.TimeoutSecs) * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := s.client.Chat(ctx, query, s.id.String(), s.mode)
	if err != nil {
		fmt.Println(ErrStyle.Render("riley> Sorry, I couldn't process that: " + err.Error()))
		fmt.Println(DimStyle.Render("       Your message was not lost; try sending it again."))
		return
	}

	fmt.Print(PromptStyle.Render("riley> "))
	printResponse(resp.Response, resp.SourcesCount, false)

	if s.turns == 0 {
		rememberExchange(s.id, query)
	} else if s.store != nil {
		s.store.Touch(s.id.String(), (s.turns+1)*2, query)
	}
	s.turns++
}

// handleCommand dispatches a slash command. Returns true to quit.
func (s *chatSession) handleCommand(input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := fields[0]

	switch cmd {
	case "/quit", "/q", "/exit":
		fmt.Println(DimStyle.Render("bye"))
		return true, nil

	case "/help", "/h":
		fmt.Println(SectionStyle.Render("Commands"))
		fmt.Println("  /new               start a fresh session")
		fmt.Println("  /clear             clear this session on the backend")
		fmt.Println("  /mode [fast|deep]  show or switch assistant effort")
		fmt.Println("  /sessions          list saved sessions")
		fmt.Println("  /quit              exit")
		return false, nil

	case "/new":
		s.id = session.New(s.cfg.API.Tenant, s.cfg.API.DefaultContext, s.cfg.API.UserID)
		s.turns = 0
		fmt.Println(SuccessStyle.Render("Started a new session."))
		return false, nil

	case "/clear":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.client.ClearSession(ctx, s.id.String()); err != nil && !api.IsNotFound(err) {
			return false, err
		}
		s.id = session.New(s.cfg.API.Tenant, s.cfg.API.DefaultContext, s.cfg.API.UserID)
		s.turns = 0
		fmt.Println(SuccessStyle.Render("Session cleared."))
		return false, nil

	case "/mode":
		if len(fields) > 1 {
			s.mode = api.ParseMode(fields[1])
		}
		fmt.Println(printKV("Mode", string(s.mode)))
		return false, nil

	case "/sessions":
		if s.store == nil {
			return false, fmt.Errorf("session store unavailable")
		}
		recs, err := s.store.List()
		if err != nil {
			return false, err
		}
		fmt.Println(storage.FormatSessionList(recs))
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// printBanner prints the REPL greeting.
func (s *chatSession) printBanner() {
	fmt.Println(TitleStyle.Render("riley chat"))
	fmt.Println(printKV("Tenant", s.id.TenantID))
	if s.id.ContextKey != "" {
		fmt.Println(printKV("Context", s.id.ContextKey))
	}
	fmt.Println(printKV("Mode", string(s.mode)))
	fmt.Println(DimStyle.Render("Type /help for commands, Ctrl+D to exit."))
	fmt.Println()
}
