// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/jeranaias/cortex-tui/internal/model"
)

// Upload is a single PDF to send to the backend.
type Upload struct {
	// Name is the filename reported to the backend.
	Name string
	// Body is the file content.
	Body io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// ErrNoConversationID is returned when the backend accepted a request but
// did not say which conversation it belongs to.
var ErrNoConversationID = errors.New("backend response did not include a conversation id")

// UploadPDF uploads one PDF. An empty conversationID asks the backend to
// create a conversation. The returned id is the conversation the file was
// attached to.
func (c *Client) UploadPDF(ctx context.Context, file Upload, conversationID string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file.Name, err)
	}

	if conversationID != "" {
		if err := mw.WriteField("conversation_id", conversationID); err != nil {
			return "", fmt.Errorf("failed to write multipart field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload-pdf", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp uploadResponseWire
	if err := c.do(c.upload, req, &resp); err != nil {
		return "", err
	}

	id := resp.id()
	if id == "" {
		if conversationID != "" {
			return conversationID, nil
		}
		return "", ErrNoConversationID
	}
	return id, nil
}

// QueryPDF submits a question. The answer is produced asynchronously and
// appears in the conversation's messages once ready.
func (c *Client) QueryPDF(ctx context.Context, question, conversationID string) (string, error) {
	body := queryWire{Question: question}
	if conversationID != "" {
		body.ConversationID = &conversationID
	}

	var resp queryResponseWire
	if err := c.doJSON(ctx, http.MethodPost, "/query-pdf", body, &resp); err != nil {
		return "", err
	}

	if resp.ConversationID == "" {
		if conversationID != "" {
			return conversationID, nil
		}
		return "", ErrNoConversationID
	}
	return resp.ConversationID, nil
}

// ListDocuments returns every PDF the caller has uploaded, newest first.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var wire []documentWire
	if err := c.doJSON(ctx, http.MethodGet, "/pdfs", nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.Document, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// DeleteDocument removes one uploaded PDF and its index entries.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/pdfs/"+pathID(documentID), nil, nil)
}

// IsPDF reports whether name looks like a PDF by extension.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
