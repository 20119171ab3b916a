// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs.go - uploaded document management.
//
// Examples:
//   cortex docs
//   cortex docs rm 7 --yes

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/util"
)

// HandleDocs handles the "docs" command and its list and rm subcommands.
func HandleDocs(ctx context.Context, args Args, env *Env) error {
	if err := env.requireSession(); err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "list", "ls":
		return listDocs(ctx, args, env)
	case "rm", "delete":
		return removeDoc(ctx, args, env)
	default:
		return &ValidationError{
			Field:   "docs subcommand",
			Value:   args.Subcommand,
			Reason:  "expected list or rm",
			Example: "cortex docs rm <id>",
		}
	}
}

func listDocs(ctx context.Context, args Args, env *Env) error {
	docs, err := env.Backend.ListDocuments(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		rows := make([]DocumentData, 0, len(docs))
		for _, d := range docs {
			rows = append(rows, documentData(d))
		}
		return NewJSONResponse("docs", rows).Print(env.out())
	}

	w := env.out()
	if len(docs) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No documents uploaded."))
		return nil
	}
	for _, d := range docs {
		uploaded := ""
		if !d.UploadedAt.IsZero() {
			uploaded = d.UploadedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s  %s  %s\n",
			DimStyle.Render(util.PadRight(d.ID, 10)),
			ValueStyle.Render(util.PadRight(util.TruncateWidth(d.Filename, titleColumnWidth), titleColumnWidth)),
			DimStyle.Render(uploaded))
	}
	return nil
}

func removeDoc(ctx context.Context, args Args, env *Env) error {
	id := args.Query
	if id == "" {
		return ErrMissingArgument("document id", "cortex docs rm <id> [--yes]")
	}

	docs, err := env.Backend.ListDocuments(ctx)
	if err != nil {
		return err
	}
	var doc *model.Document
	for i := range docs {
		if docs[i].ID == id {
			doc = &docs[i]
			break
		}
	}
	if doc == nil {
		return ErrNotFound("document", id)
	}

	confirmed, err := RequireConfirmation(env.Prompt,
		fmt.Sprintf("delete document %q", doc.Filename),
		ConfirmationOptions{Yes: args.Yes, JSONMode: args.JSON})
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(env.errw(), "Cancelled.")
		return nil
	}

	if err := env.Backend.DeleteDocument(ctx, id); err != nil {
		return &CommandError{Command: "docs", Action: "rm", Reason: "Failed to delete document: " + Describe(err), Err: err}
	}

	if args.JSON {
		return NewJSONResponse("docs", DeleteData{ID: id, Deleted: true}).Print(env.out())
	}
	fmt.Fprintf(env.out(), "%s Deleted %s\n", RenderStatus(true), doc.Filename)
	return nil
}

func documentData(d model.Document) DocumentData {
	out := DocumentData{ID: d.ID, Filename: d.Filename}
	if !d.UploadedAt.IsZero() {
		out.UploadedAt = d.UploadedAt.UTC().Format(time.RFC3339)
	}
	return out
}
