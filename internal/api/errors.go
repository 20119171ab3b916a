// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error variables for common backend failures.
var (
	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = errors.New("backend unreachable")

	// ErrUnauthorized matches any *Error with status 401.
	ErrUnauthorized = errors.New("not authenticated")

	// ErrNotFound matches any *Error with status 404.
	ErrNotFound = errors.New("not found")

	// ErrMissingBaseURL is returned by New when no base URL was supplied.
	ErrMissingBaseURL = errors.New("api: base URL is required")
)

// Error is returned for every non-2xx response.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Is lets callers match status classes with errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Temporary reports whether retrying the same request later may succeed.
func (e *Error) Temporary() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// errorBody covers the shapes the backend uses for error payloads.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// newError builds an *Error from a non-2xx response body.
func newError(status int, body []byte) *Error {
	return &Error{Status: status, Message: errorMessage(status, body)}
}

// errorMessage extracts the human-readable message from an error body.
// FastAPI sends {"detail": "..."} or, for validation failures,
// {"detail": [{"msg": "..."}]}.
func errorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if msg := detailMessage(eb.Detail); msg != "" {
			return msg
		}
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}

	if raw := strings.TrimSpace(string(body)); raw != "" && !strings.HasPrefix(raw, "{") {
		return raw
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		var msgs []string
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
