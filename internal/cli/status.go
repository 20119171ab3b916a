// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for cortex.
//
// Command: status
// Aliases: s
//
// Shows the configured backend, where the session is stored, and whether
// the backend still accepts it.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jeranaias/cortex-tui/internal/api"
)

// HandleStatus handles the "status" command.
func HandleStatus(ctx context.Context, args Args, env *Env) error {
	data := StatusData{
		BaseURL: env.Config.Backend.BaseURL,
	}
	if env.Session != nil {
		data.SessionFile = env.Session.Path()
		data.LoggedIn = env.Session.LoggedIn()
	}

	var checkErr error
	if data.LoggedIn {
		checkErr = env.Backend.CheckSession(ctx)
		valid := checkErr == nil
		data.SessionValid = &valid
		if checkErr != nil {
			log.Printf("SESSION: check failed: %v", checkErr)
			data.SessionError = Describe(checkErr)
		}
	}

	if args.JSON {
		return NewJSONResponse("status", data).Print(env.out())
	}

	w := env.out()
	fmt.Fprintln(w, TitleStyle.Render("Cortex status"))
	fmt.Fprintln(w, RenderSeparator(40))
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Backend"), ValueStyle.Render(data.BaseURL))
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Session file"), ValueStyle.Render(data.SessionFile))

	switch {
	case !data.LoggedIn:
		fmt.Fprintf(w, "%s%s %s\n", RenderLabel("Session"), RenderStatus(false), "not logged in")
	case checkErr == nil:
		fmt.Fprintf(w, "%s%s %s\n", RenderLabel("Session"), RenderStatus(true), "active")
	case errors.Is(checkErr, api.ErrUnauthorized):
		fmt.Fprintf(w, "%s%s %s\n", RenderLabel("Session"), RenderStatus(false), "expired, run 'cortex login'")
	default:
		fmt.Fprintf(w, "%s%s %s\n", RenderLabel("Session"), WarningStyle.Render("[?]"), data.SessionError)
	}
	return nil
}
