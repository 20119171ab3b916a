// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/config"
	"github.com/jeranaias/cortex-tui/internal/model"
)

// Backend is the transport client surface the commands use. *api.Client
// implements it.
type Backend interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	CheckSession(ctx context.Context) error
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]model.Message, error)
	DeleteConversation(ctx context.Context, conversationID string) error
	QueryPDF(ctx context.Context, question, conversationID string) (string, error)
	UploadPDF(ctx context.Context, file api.Upload, conversationID string) (string, error)
	ListDocuments(ctx context.Context) ([]model.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// Session is the persisted login state. *session.Store implements it.
type Session interface {
	Token() string
	LoggedIn() bool
	Path() string
	Clear() error
}

// Env carries everything a command needs. main builds it once; nothing in
// this package reads globals for configuration.
type Env struct {
	Config  *config.Config
	Backend Backend
	Session Session
	Prompt  *Prompter

	// ConfigPath is the file "config set" writes.
	ConfigPath string

	Out io.Writer
	Err io.Writer
}

func (e *Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e *Env) errw() io.Writer {
	if e.Err == nil {
		return os.Stderr
	}
	return e.Err
}

// requireSession fails fast with ErrNotLoggedIn when no token is stored.
func (e *Env) requireSession() error {
	if e.Session == nil || !e.Session.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

// Run executes a non-TUI command. The error is returned undisplayed; the
// caller shows it with DisplayError and exits with GetExitCode.
func Run(ctx context.Context, cmd Command, args Args, env *Env) error {
	switch cmd {
	case CmdLogin:
		return HandleLogin(ctx, args, env)
	case CmdRegister:
		return HandleRegister(ctx, args, env)
	case CmdLogout:
		return HandleLogout(ctx, args, env)
	case CmdStatus:
		return HandleStatus(ctx, args, env)
	case CmdConversations:
		return HandleConversations(ctx, args, env)
	case CmdHistory:
		return HandleHistory(ctx, args, env)
	case CmdAsk:
		return HandleAsk(ctx, args, env)
	case CmdUpload:
		return HandleUpload(ctx, args, env)
	case CmdDelete:
		return HandleDelete(ctx, args, env)
	case CmdDocs:
		return HandleDocs(ctx, args, env)
	case CmdChat:
		return HandleChat(ctx, args, env)
	case CmdConfig:
		return HandleConfig(args, env)
	case CmdVersion:
		return HandleVersion(args, env)
	case CmdHelp:
		if args.Subcommand != "" {
			PrintUsage(env.errw())
			return &ValidationError{Field: "command", Value: args.Subcommand, Reason: "unknown command"}
		}
		PrintUsage(env.out())
		return nil
	default:
		return fmt.Errorf("command %s has no CLI handler", cmd.Name())
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args, env *Env) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print(env.out())
	}
	PrintVersion(env.out())
	return nil
}
