// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for cortex.
package cli

import (
	"fmt"
	"io"
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
	CmdLogin
	CmdRegister
	CmdLogout
	CmdStatus
	CmdConversations
	CmdHistory
	CmdAsk
	CmdUpload
	CmdDelete
	CmdDocs
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
)

// NeedsBackend reports whether the command talks to the backend and so
// requires a valid configuration.
func (c Command) NeedsBackend() bool {
	switch c {
	case CmdConfig, CmdVersion, CmdHelp:
		return false
	default:
		return true
	}
}

// Name returns the command name used in JSON output.
func (c Command) Name() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdRegister:
		return "register"
	case CmdLogout:
		return "logout"
	case CmdStatus:
		return "status"
	case CmdConversations:
		return "conversations"
	case CmdHistory:
		return "history"
	case CmdAsk:
		return "ask"
	case CmdUpload:
		return "upload"
	case CmdDelete:
		return "delete"
	case CmdDocs:
		return "docs"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON    bool
	Verbose bool
	APIURL  string

	// Command-specific
	Subcommand   string
	Query        string
	Conversation string
	Files        []string
	Email        string
	AcceptTerms  bool
	NoWait       bool
	Yes          bool
	ConfigKey    string
	ConfigVal    string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `cortex - terminal client for CortexAI PDF chat

Usage:
  cortex                          Start the TUI (default)
  cortex login [email]            Log in; the password is prompted for
  cortex register [email] --accept-terms
                                  Create an account
  cortex logout                   End the session
  cortex status                   Show backend and session status
  cortex conversations, ls        List conversations
  cortex history <id>             Print a conversation
  cortex ask "question"           Ask a question and wait for the answer
    --conversation, -c ID         Ask inside an existing conversation
    --no-wait                     Return as soon as the question is accepted
  cortex upload <file.pdf>...     Upload PDFs into one conversation
    --conversation, -c ID         Upload into an existing conversation
    --no-wait                     Do not wait for the assistant to respond
  cortex delete <id> [--yes]      Delete a conversation
  cortex docs [list]              List uploaded documents
  cortex docs rm <id> [--yes]     Delete an uploaded document
  cortex chat [-c ID]             Line-mode chat with history
  cortex config [show|path]       Show configuration or its location
  cortex config set KEY VALUE     Change a configuration value
  cortex config reset [--yes]     Restore the default configuration
  cortex version                  Show version
  cortex help                     Show this help

Global Flags:
  --json          Output in JSON format
  -v, --verbose   Log diagnostics to stderr
  --api-url URL   Backend base URL for this run

Environment:
  CORTEX_API_URL, CORTEX_TIMEOUT_SECS, CORTEX_POLL_INTERVAL_MS,
  CORTEX_SESSION_FILE, CORTEX_LOG_FILE, CORTEX_THEME, CORTEX_HOME

Examples:
  cortex config set backend.base_url http://localhost:8000
  cortex login me@example.com
  cortex upload report.pdf appendix.pdf
  cortex ask -c 42 "Summarize section 3"
  cortex ls --json

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "cortex version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments (without the program name) and
// returns the command and args.
func Parse(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	p := NewArgParser(remaining)

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "login":
		parsedArgs.Email = p.Positional(0)
		return CmdLogin, parsedArgs

	case "register", "signup":
		parsedArgs.Email = p.Positional(0)
		parsedArgs.AcceptTerms = p.BoolFlag("accept-terms")
		return CmdRegister, parsedArgs

	case "logout":
		return CmdLogout, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "conversations", "ls", "list":
		return CmdConversations, parsedArgs

	case "history", "show":
		parsedArgs.Conversation = p.Positional(0)
		return CmdHistory, parsedArgs

	case "ask":
		parsedArgs.Conversation = p.FlagOrDefault("conversation", p.Flag("c"))
		parsedArgs.NoWait = p.BoolFlag("no-wait")
		parsedArgs.Query = JoinPositionalArgs(p, 0)
		return CmdAsk, parsedArgs

	case "upload":
		parsedArgs.Conversation = p.FlagOrDefault("conversation", p.Flag("c"))
		parsedArgs.NoWait = p.BoolFlag("no-wait")
		parsedArgs.Files = p.PositionalFrom(0)
		return CmdUpload, parsedArgs

	case "delete", "rm":
		parsedArgs.Conversation = p.Positional(0)
		parsedArgs.Yes = p.BoolFlag("yes") || p.BoolFlag("y")
		return CmdDelete, parsedArgs

	case "docs", "documents":
		parsedArgs.Subcommand = p.Subcommand()
		parsedArgs.Query = p.Positional(1)
		parsedArgs.Yes = p.BoolFlag("yes") || p.BoolFlag("y")
		return CmdDocs, parsedArgs

	case "chat":
		parsedArgs.Conversation = p.FlagOrDefault("conversation", p.Flag("c"))
		return CmdChat, parsedArgs

	case "config":
		parsedArgs.Subcommand = p.Subcommand()
		parsedArgs.ConfigKey = p.Positional(1)
		parsedArgs.ConfigVal = p.Positional(2)
		parsedArgs.Yes = p.BoolFlag("yes") || p.BoolFlag("y")
		return CmdConfig, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		parsedArgs.Subcommand = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--json":
			parsedArgs.JSON = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--api-url":
			if i+1 < len(args) {
				i++
				parsedArgs.APIURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--api-url=") {
				parsedArgs.APIURL = strings.TrimPrefix(arg, "--api-url=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}
