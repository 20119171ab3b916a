// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
)

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/login", credentialsWire{Email: email, Password: password}, nil)
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/register", credentialsWire{Email: email, Password: password}, nil)
}

// Logout asks the backend to clear the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

// CheckSession reports whether the stored cookie is still accepted.
// It returns an error matching ErrUnauthorized when it is not.
func (c *Client) CheckSession(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/protected", nil, nil)
}
