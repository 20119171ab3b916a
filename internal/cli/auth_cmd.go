// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register and logout.
//
// Examples:
//   cortex login me@example.com
//   cortex register me@example.com --accept-terms
//   echo "$PASSWORD" | cortex login me@example.com --json

package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jeranaias/cortex-tui/internal/auth"
)

// AuthData is returned by login, register and logout in JSON mode.
type AuthData struct {
	Email    string `json:"email,omitempty"`
	LoggedIn bool   `json:"logged_in"`
	Notice   string `json:"notice,omitempty"`
}

// HandleLogin handles the "login" command.
func HandleLogin(ctx context.Context, args Args, env *Env) error {
	form, err := readCredentials(args, env, auth.ModeLogin)
	if err != nil {
		return err
	}

	if _, err := auth.Submit(ctx, env.Backend, form); err != nil {
		log.Printf("AUTH: login failed: %v", err)
		return &CommandError{Command: "login", Action: "submit", Reason: auth.Humanize(err), Err: err}
	}

	email := auth.NormalizeEmail(form.Email)
	if args.JSON {
		return NewJSONResponse("login", AuthData{Email: email, LoggedIn: true}).Print(env.out())
	}
	fmt.Fprintf(env.out(), "%s Logged in as %s\n", RenderStatus(true), email)
	return nil
}

// HandleRegister handles the "register" command. The terms must be accepted
// with --accept-terms.
func HandleRegister(ctx context.Context, args Args, env *Env) error {
	form, err := readCredentials(args, env, auth.ModeRegister)
	if err != nil {
		return err
	}
	form.AcceptedTerms = args.AcceptTerms

	res, err := auth.Submit(ctx, env.Backend, form)
	if err != nil {
		log.Printf("AUTH: register failed: %v", err)
		return &CommandError{Command: "register", Action: "submit", Reason: auth.Humanize(err), Err: err}
	}

	if args.JSON {
		return NewJSONResponse("register", AuthData{Email: auth.NormalizeEmail(form.Email), Notice: res.Notice}).Print(env.out())
	}
	fmt.Fprintf(env.out(), "%s %s\n", RenderStatus(true), res.Notice)
	fmt.Fprintln(env.out(), DimStyle.Render("Next: cortex login "+auth.NormalizeEmail(form.Email)))
	return nil
}

// HandleLogout handles the "logout" command. The local session is cleared
// even when the backend cannot be reached.
func HandleLogout(ctx context.Context, args Args, env *Env) error {
	if env.Session != nil && env.Session.LoggedIn() {
		if err := env.Backend.Logout(ctx); err != nil {
			log.Printf("SESSION: logout request failed, clearing local session anyway: %v", err)
		}
	}
	if env.Session != nil {
		if err := env.Session.Clear(); err != nil {
			return WrapError(err, "failed to clear session")
		}
	}

	if args.JSON {
		return NewJSONResponse("logout", AuthData{LoggedIn: false}).Print(env.out())
	}
	fmt.Fprintf(env.out(), "%s Logged out\n", RenderStatus(true))
	return nil
}

// readCredentials takes the email from the command line or a prompt and
// always prompts for the password.
func readCredentials(args Args, env *Env, mode auth.Mode) (auth.Form, error) {
	form := auth.Form{Mode: mode, Email: args.Email}
	if env.Prompt == nil {
		return form, auth.Validate(form)
	}

	if form.Email == "" {
		email, err := env.Prompt.Line("Email: ")
		if err != nil {
			return form, WrapError(err, "failed to read email")
		}
		form.Email = email
	}

	password, err := env.Prompt.Password("Password: ")
	if err != nil {
		return form, WrapError(err, "failed to read password")
	}
	form.Password = password
	return form, nil
}
