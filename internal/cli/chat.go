// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for terminals where the full TUI is unwanted.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   cortex chat
//   cortex chat -c 42
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /new                Start a new conversation
//   /open ID            Switch to a conversation and print it
//   /list, /ls          List conversations
//   /upload FILE...     Upload PDFs into the current conversation
//   /history            Print the current conversation
//   /quit, /q           Exit chat
//   Ctrl+C              Stop waiting for a reply (at the prompt: exit)
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/cortex-tui/internal/composer"
	"github.com/jeranaias/cortex-tui/internal/config"
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

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
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

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession is one REPL run over a single exchange.
type chatSession struct {
	env *Env
	ex  *exchange
	out io.Writer
}

func newChatSession(env *Env) *chatSession {
	return &chatSession{env: env, ex: newExchange(env), out: env.out()}
}

func (s *chatSession) prompt() string {
	if id := s.ex.sync.ActiveID(); id != "" {
		return fmt.Sprintf("cortex[%s]> ", id)
	}
	return "cortex> "
}

// handleLine processes one line of input. It reports false when the
// session should end.
func (s *chatSession) handleLine(ctx context.Context, input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return true, nil
	}
	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return false, nil
	}
	if strings.HasPrefix(input, "/") {
		return s.handleSlashCommand(ctx, input)
	}
	return true, s.send(ctx, input)
}

func (s *chatSession) handleSlashCommand(ctx context.Context, input string) (bool, error) {
	parts := strings.Fields(input)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printChatHelp(s.out)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	case "/new":
		if err := s.ex.open(ctx, ""); err != nil {
			return true, err
		}
		fmt.Fprintln(s.out, DimStyle.Render("[New chat] Upload a PDF or ask a question."))
		return true, nil

	case "/open":
		if len(rest) != 1 {
			return true, ErrMissingArgument("conversation id", "/open 42")
		}
		if err := s.ex.open(ctx, rest[0]); err != nil {
			return true, err
		}
		s.printHistory()
		return true, nil

	case "/list", "/ls":
		items, err := s.env.Backend.ListConversations(ctx)
		if err != nil {
			return true, err
		}
		if len(items) == 0 {
			fmt.Fprintln(s.out, DimStyle.Render("No conversations yet."))
		}
		for _, c := range items {
			fmt.Fprintln(s.out, conversationRow(c, titleColumnWidth))
		}
		return true, nil

	case "/history":
		s.printHistory()
		return true, nil

	case "/upload":
		return true, s.upload(ctx, rest)

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

func (s *chatSession) send(ctx context.Context, question string) error {
	id, err := s.ex.ask(ctx, question)
	if err != nil {
		return err
	}
	return s.await(ctx, id)
}

func (s *chatSession) upload(ctx context.Context, paths []string) error {
	if err := composer.CheckFiles(paths); err != nil {
		return err
	}
	id, uploaded, err := s.ex.upload(ctx, paths)
	if len(uploaded) > 0 {
		fmt.Fprintf(s.out, "%s Uploaded %s\n", RenderStatus(true), strings.Join(uploaded, ", "))
	}
	if err != nil {
		return err
	}
	return s.await(ctx, id)
}

func (s *chatSession) await(ctx context.Context, id string) error {
	if id == "" {
		return &CommandError{Command: "chat", Action: "submit", Reason: "Cortex accepted the request but returned no conversation id", Err: ErrNoReply}
	}

	fmt.Fprintln(s.out, DimStyle.Render("Thinking..."))
	answered, err := s.ex.wait(ctx)
	if err != nil {
		return stoppedWaiting("chat", id, err)
	}
	if !answered {
		fmt.Fprintln(s.out, WarningStyle.Render(fmt.Sprintf("No reply yet. Try /open %s later.", id)))
		return nil
	}

	msg, _ := s.ex.reply()
	printMessage(s.out, msg)
	fmt.Fprintln(s.out)
	return nil
}

func (s *chatSession) printHistory() {
	msgs := s.ex.sync.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(s.out, DimStyle.Render("No messages yet."))
		return
	}
	printTranscript(s.out, msgs)
	fmt.Fprintln(s.out)
}

func printChatHelp(w io.Writer) {
	fmt.Fprintln(w, TitleStyle.Render("Commands"))
	rows := [][2]string{
		{"/new", "Start a new conversation"},
		{"/open ID", "Switch to a conversation"},
		{"/list", "List conversations"},
		{"/upload FILE...", "Upload PDFs into this conversation"},
		{"/history", "Print this conversation"},
		{"/quit", "Exit (also Ctrl+D)"},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s%s\n", RenderLabel(r[0]), DimStyle.Render(r[1]))
	}
	fmt.Fprintln(w, DimStyle.Render("Anything else is sent as a question. Ctrl+C stops waiting for a reply."))
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(ctx context.Context, args Args, env *Env) error {
	if args.JSON {
		return &ValidationError{Field: "--json", Reason: "chat is interactive; use ask for scripted queries"}
	}
	if err := env.requireSession(); err != nil {
		return err
	}

	s := newChatSession(env)
	defer s.ex.close()
	if err := s.ex.open(ctx, args.Conversation); err != nil {
		return err
	}

	fmt.Fprintln(s.out, TitleStyle.Render("Cortex chat")+DimStyle.Render("  /help for commands, Ctrl+D to exit"))
	if args.Conversation != "" {
		s.printHistory()
	}

	input := NewChatCLI()
	defer input.Close()

	for {
		line, err := input.ReadInput(s.prompt())
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				log.Printf("COMPOSER: input closed: %v", err)
			}
			fmt.Fprintln(s.out)
			return nil
		}

		lineCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		keepGoing, err := s.handleLine(lineCtx, line)
		stop()
		if err != nil {
			fmt.Fprintf(env.errw(), "%s %s\n", ErrorStyle.Render("[Error]"), Describe(err))
		}
		if !keepGoing || ctx.Err() != nil {
			return nil
		}
	}
}
