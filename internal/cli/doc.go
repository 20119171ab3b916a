// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands for
// cortex.
//
// Every command talks to the backend through the same api client, session
// store, composer and transcript synchronizer the TUI uses, so a question
// asked here behaves the same as one typed in the chat screen.
//
// # Key Types
//
//   - Command: Enumeration of all available commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - Env: The config, backend, session and prompter a command runs against
//   - JSONResponse: Envelope for --json output
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	if cmd == cli.CmdTUI {
//	    // start the Bubble Tea program
//	}
//	if err := cli.Run(ctx, cmd, args, env); err != nil {
//	    cli.DisplayError(os.Stderr, cmd.Name(), err, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # Commands Overview
//
// Account:
//   - login, register, logout, status
//
// Conversations:
//   - conversations (ls), history, delete
//   - ask, upload, chat
//
// Documents:
//   - docs list, docs rm
//
// Local:
//   - config, version, help
//
// All commands support --json for scripting.
package cli
