// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "strings"

// Routes known to the client.
const (
	RouteHome    = "/"
	RouteChat    = "/chat"
	RouteTerms   = "/terms"
	RoutePrivacy = "/privacy"
)

// Decision is the outcome of a guard check. An empty Redirect means pass.
type Decision struct {
	Redirect string
}

// Pass reports whether navigation may proceed to the requested path.
func (d Decision) Pass() bool {
	return d.Redirect == ""
}

// Guard decides whether a navigation to path may proceed given the current
// session token. Chat routes require a token; the landing page sends
// authenticated users straight to chat. Everything else passes.
func Guard(path, token string) Decision {
	switch {
	case strings.HasPrefix(path, RouteChat) && token == "":
		return Decision{Redirect: RouteHome}
	case path == RouteHome && token != "":
		return Decision{Redirect: RouteChat}
	default:
		return Decision{}
	}
}

// Resolve applies Guard and returns the path that should actually be shown.
func Resolve(path, token string) string {
	if d := Guard(path, token); !d.Pass() {
		return d.Redirect
	}
	return path
}
