// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the login session on the client side.
//
// # Key Types
//
//   - Store: persisted single-origin cookie jar holding the backend token
//   - Guard / Resolve: the route guard run on every navigation
//   - Watcher: fsnotify watch on the session file
//
// # Usage
//
//	base, _ := url.Parse(cfg.Backend.BaseURL)
//	store, err := session.Open(path, base)
//	client, err := api.New(api.Options{BaseURL: cfg.Backend.BaseURL, Jar: store})
//
//	route := session.Resolve("/chat", store.Token())
package session
