// json_output.go - JSON output for scripting.
//
// Every command accepts --json and then writes exactly one JSONResponse to
// stdout. Human-readable progress goes to stderr in that mode.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/cortex-tui/internal/model"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// ErrorType categorizes a failure (validation_error, not_found_error, ...)
	ErrorType string `json:"error_type,omitempty"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := Describe(err)
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the JSON response to w.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errorJSON(err)
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// StatusData represents the data returned by the status command.
type StatusData struct {
	BaseURL     string `json:"base_url"`
	SessionFile string `json:"session_file"`
	LoggedIn    bool   `json:"logged_in"`
	// SessionValid is only set when a session is stored.
	SessionValid *bool  `json:"session_valid,omitempty"`
	SessionError string `json:"session_error,omitempty"`
}

// ConversationData is one row of the conversations command.
type ConversationData struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Documents []string `json:"documents"`
}

// MessageData is one message of the history command.
type MessageData struct {
	ID        string `json:"id,omitempty"`
	Role      string `json:"role"`
	Kind      string `json:"kind"`
	Text      string `json:"text,omitempty"`
	Filename  string `json:"filename,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// HistoryData represents the data returned by the history command.
type HistoryData struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []MessageData `json:"messages"`
}

// AskData represents the data returned by the ask and upload commands.
type AskData struct {
	ConversationID string   `json:"conversation_id"`
	Uploaded       []string `json:"uploaded,omitempty"`
	Answered       bool     `json:"answered"`
	Response       string   `json:"response,omitempty"`
	DurationMs     int64    `json:"duration_ms"`
}

// DocumentData is one row of the docs command.
type DocumentData struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

// DeleteData is returned by delete and docs rm.
type DeleteData struct {
	ID        string `json:"id"`
	Deleted   bool   `json:"deleted"`
	WasActive bool   `json:"was_active,omitempty"`
}

// ConfigData represents the data returned by the config command.
type ConfigData struct {
	Path   string                 `json:"config_path"`
	Values map[string]interface{} `json:"values,omitempty"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// conversationData converts a conversation to its JSON row.
func conversationData(c model.Conversation) ConversationData {
	docs := make([]string, 0, len(c.Documents))
	for _, d := range c.Documents {
		docs = append(docs, d.Filename)
	}
	return ConversationData{ID: c.ID, Title: c.DisplayTitle(), Documents: docs}
}

// messageData converts a message to its JSON form.
func messageData(m model.Message) MessageData {
	out := MessageData{ID: m.ID, Role: string(m.Role)}
	if !m.CreatedAt.IsZero() {
		out.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	}
	switch body := m.Body.(type) {
	case model.Text:
		out.Kind = string(model.KindText)
		out.Text = body.Text
	case model.PDFAttachment:
		out.Kind = string(model.KindPDF)
		out.Filename = body.Filename
	}
	return out
}
