// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer submits questions and PDF uploads and reports their
// lifecycle to whoever owns the transcript.
package composer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/model"
)

// Errors returned when a submission is rejected before any request is sent.
var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrDisabled      = errors.New("composer is disabled while a reply is pending")
	ErrNoFiles       = errors.New("no files selected")
)

// NotPDFError is returned when a selected file is not a PDF.
type NotPDFError struct {
	Path string
}

func (e *NotPDFError) Error() string {
	return fmt.Sprintf("%s is not a PDF", filepath.Base(e.Path))
}

// Backend is the subset of the API client the composer needs.
type Backend interface {
	QueryPDF(ctx context.Context, question, conversationID string) (string, error)
	UploadPDF(ctx context.Context, file api.Upload, conversationID string) (string, error)
}

// Sink receives lifecycle signals in order. *transcript.Synchronizer
// implements it directly; the TUI forwards them through its event loop.
type Sink interface {
	UserMessage(msg model.Message)
	UploadStarted()
	ProcessingEnded()
	ConversationCreated(id string)
}

// Opener opens a file for upload.
type Opener func(path string) (io.ReadCloser, error)

// Composer turns user input into backend requests.
type Composer struct {
	backend Backend
	open    Opener
	newID   func() string
}

// New creates a Composer reading files from the local filesystem.
func New(backend Backend) *Composer {
	return &Composer{
		backend: backend,
		open:    func(path string) (io.ReadCloser, error) { return os.Open(path) },
		newID:   func() string { return "local-" + uuid.NewString() },
	}
}

// WithOpener replaces how files are opened. Used by tests.
func (c *Composer) WithOpener(open Opener) *Composer {
	c.open = open
	return c
}

// Ready reports whether text can be submitted.
func Ready(text string, disabled bool) bool {
	return !disabled && strings.TrimSpace(text) != ""
}

// SubmitQuestion sends a question. Empty input or a disabled composer is a
// no-op: nothing is appended and no request is made.
//
// On acceptance the sink sees, in order: UserMessage, UploadStarted,
// ProcessingEnded, and, if the backend created a conversation and none was
// active, ConversationCreated. A failed request is logged and returned; the
// optimistic message stays.
func (c *Composer) SubmitQuestion(ctx context.Context, text, activeID string, disabled bool, sink Sink) (string, error) {
	if disabled {
		return "", ErrDisabled
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyQuestion
	}

	sink.UserMessage(model.NewUserText(c.newID(), text))
	sink.UploadStarted()
	sink.ProcessingEnded()

	id, err := c.backend.QueryPDF(ctx, text, activeID)
	if err != nil {
		log.Printf("COMPOSER: query failed: %v", err)
		return "", err
	}

	if activeID == "" && id != "" {
		sink.ConversationCreated(id)
	}
	return id, nil
}

// CheckFiles rejects an empty selection or any file without a .pdf extension.
func CheckFiles(paths []string) error {
	if len(paths) == 0 {
		return ErrNoFiles
	}
	for _, p := range paths {
		if !api.IsPDF(p) {
			return &NotPDFError{Path: p}
		}
	}
	return nil
}

// SubmitFiles uploads files one after another. The first upload without an
// active conversation creates one; every later file in the batch is sent to
// that same conversation. UploadStarted is signalled before the first upload
// and ProcessingEnded after the last, whether or not they succeeded. The
// batch stops at the first failure.
//
// Each successful upload is also reported as an optimistic attachment
// message so the card appears before the next poll.
func (c *Composer) SubmitFiles(ctx context.Context, paths []string, activeID string, sink Sink) (string, error) {
	if err := CheckFiles(paths); err != nil {
		return "", err
	}

	sink.UploadStarted()
	defer sink.ProcessingEnded()

	currentID := activeID
	for _, path := range paths {
		id, err := c.uploadOne(ctx, path, currentID)
		if err != nil {
			log.Printf("COMPOSER: upload of %s failed: %v", filepath.Base(path), err)
			return currentID, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
		}

		if currentID == "" && id != "" {
			currentID = id
			sink.ConversationCreated(id)
		}
		sink.UserMessage(model.NewUserPDF(c.newID(), filepath.Base(path)))
	}
	return currentID, nil
}

func (c *Composer) uploadOne(ctx context.Context, path, conversationID string) (string, error) {
	f, err := c.open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return c.backend.UploadPDF(ctx, api.Upload{Name: filepath.Base(path), Body: f}, conversationID)
}
