// cortex - terminal client for CortexAI PDF chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/cli"
	"github.com/jeranaias/cortex-tui/internal/config"
	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/ui/app"
	"github.com/jeranaias/cortex-tui/internal/ui/chat"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		fail(cmd, args, config.ValidationError{Field: "config file", Message: err.Error(), Err: err})
	}
	if args.APIURL != "" {
		cfg.Backend.BaseURL = args.APIURL
	}

	if cmd == cli.CmdTUI {
		if err := runTUI(cfg); err != nil {
			fail(cmd, args, err)
		}
		return
	}

	if err := runCommand(cmd, args, cfg); err != nil {
		fail(cmd, args, err)
	}
}

// fail reports err the way the command's output mode expects and exits.
func fail(cmd cli.Command, args cli.Args, err error) {
	w := os.Stderr
	if args.JSON {
		w = os.Stdout
	}
	cli.DisplayError(w, cmd.Name(), err, args.JSON)
	os.Exit(cli.GetExitCode(err))
}

// connect validates the backend settings and builds the session store and
// API client that share the cookie.
func connect(cfg *config.Config) (*session.Store, *api.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	base, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return nil, nil, err
	}
	path, err := cfg.SessionPath()
	if err != nil {
		return nil, nil, err
	}
	store, err := session.Open(path, base)
	if err != nil {
		return nil, nil, err
	}

	client, err := api.New(api.Options{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           cfg.Timeout(),
		Jar:               store,
		RequestsPerSecond: cfg.Backend.MaxRequestsPerSec,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, client, nil
}

// runCommand runs a non-TUI command. Logs go to stderr only with --verbose.
func runCommand(cmd cli.Command, args cli.Args, cfg *config.Config) error {
	log.SetOutput(io.Discard)
	if args.Verbose {
		log.SetOutput(os.Stderr)
	}

	configPath, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	env := &cli.Env{
		Config:     cfg,
		Prompt:     cli.NewTerminalPrompter(),
		ConfigPath: configPath,
	}

	if cmd.NeedsBackend() {
		store, client, err := connect(cfg)
		if err != nil {
			return err
		}
		env.Backend = client
		env.Session = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	if cmd != cli.CmdChat {
		// chat installs its own interrupt handling per message.
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}
	return cli.Run(ctx, cmd, args, env)
}

// runTUI starts the Bubble Tea program. Logs go to the configured file so
// they do not corrupt the screen.
func runTUI(cfg *config.Config) error {
	store, client, err := connect(cfg)
	if err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return err
	}
	logFile, err := tea.LogToFile(logPath, "cortex")
	if err != nil {
		return err
	}
	defer logFile.Close()

	opts := app.Options{
		Chat: chat.Options{
			PollInterval: cfg.PollInterval(),
			MaxWait:      cfg.MaxWait(),
			SidebarWidth: cfg.UI.SidebarWidth,
		},
	}
	if cfg.Session.Watch {
		watcher, err := session.NewWatcher(store.Path())
		if err != nil {
			log.Printf("SESSION: not watching %s: %v", store.Path(), err)
		} else {
			defer watcher.Close()
			opts.SessionChanges = watcher.Changes()
		}
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	m := app.New(client, store, theme, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
