// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// conversations.go - conversations, history and delete.
//
// Examples:
//   cortex ls
//   cortex history 42
//   cortex delete 42 --yes

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/cortex-tui/internal/directory"
)

const titleColumnWidth = 36

// HandleConversations handles the "conversations" command.
func HandleConversations(ctx context.Context, args Args, env *Env) error {
	if err := env.requireSession(); err != nil {
		return err
	}

	items, err := env.Backend.ListConversations(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		rows := make([]ConversationData, 0, len(items))
		for _, c := range items {
			rows = append(rows, conversationData(c))
		}
		return NewJSONResponse("conversations", rows).Print(env.out())
	}

	w := env.out()
	if len(items) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No conversations yet. Start one with: cortex upload <file.pdf>"))
		return nil
	}
	for _, c := range items {
		fmt.Fprintln(w, conversationRow(c, titleColumnWidth))
	}
	return nil
}

// HandleHistory handles the "history" command.
func HandleHistory(ctx context.Context, args Args, env *Env) error {
	if args.Conversation == "" {
		return ErrMissingArgument("conversation id", "cortex history <id>")
	}
	if err := env.requireSession(); err != nil {
		return err
	}

	msgs, err := env.Backend.Messages(ctx, args.Conversation)
	if err != nil {
		return err
	}

	if args.JSON {
		data := HistoryData{ConversationID: args.Conversation, Messages: make([]MessageData, 0, len(msgs))}
		for _, m := range msgs {
			data.Messages = append(data.Messages, messageData(m))
		}
		return NewJSONResponse("history", data).Print(env.out())
	}

	if len(msgs) == 0 {
		fmt.Fprintln(env.out(), DimStyle.Render("This conversation has no messages."))
		return nil
	}
	printTranscript(env.out(), msgs)
	return nil
}

// HandleDelete handles the "delete" command. The conversation must exist in
// the user's list; the user confirms unless --yes is given.
func HandleDelete(ctx context.Context, args Args, env *Env) error {
	if args.Conversation == "" {
		return ErrMissingArgument("conversation id", "cortex delete <id> [--yes]")
	}
	if err := env.requireSession(); err != nil {
		return err
	}

	dir := directory.New(env.Backend)
	if err := dir.Load(ctx); err != nil {
		return err
	}
	conv, ok := dir.Find(args.Conversation)
	if !ok {
		return ErrNotFound("conversation", args.Conversation)
	}

	confirmed, err := RequireConfirmation(env.Prompt,
		fmt.Sprintf("delete conversation %q", conv.DisplayTitle()),
		ConfirmationOptions{Yes: args.Yes, JSONMode: args.JSON})
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(env.errw(), "Cancelled.")
		return nil
	}

	dir.RequestDelete(conv.ID)
	id, _, err := dir.ConfirmDelete(ctx)
	if err != nil {
		return &CommandError{Command: "delete", Action: "conversation", Reason: directory.DeleteFailedMessage, Err: err}
	}

	if args.JSON {
		return NewJSONResponse("delete", DeleteData{ID: id, Deleted: true}).Print(env.out())
	}
	fmt.Fprintf(env.out(), "%s Deleted %q\n", RenderStatus(true), conv.DisplayTitle())
	return nil
}
