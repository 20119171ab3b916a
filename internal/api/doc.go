// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the CortexAI backend.
//
// Every request carries the session cookie from the configured jar and an
// X-Request-ID header. Non-2xx responses become *Error with the message the
// backend put in the body; transport failures wrap ErrTransport.
//
//	client, err := api.New(api.Options{BaseURL: cfg.Backend.BaseURL, Jar: store})
//	convs, err := client.ListConversations(ctx)
//	if errors.Is(err, api.ErrUnauthorized) {
//	    // back to the login screen
//	}
package api
