// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - ask and upload.
//
// Both commands submit through the same composer the TUI uses, then poll
// the conversation until Cortex replies, the wait cap is reached, or the
// user interrupts.
//
// Examples:
//   cortex ask "Summarise section 2" -c 42
//   cortex upload report.pdf appendix.pdf
//   cortex upload report.pdf -c 42 --no-wait --json
//
// Flags:
//   -c, --conversation ID   Continue an existing conversation
//   --no-wait               Return as soon as the request is accepted

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/cortex-tui/internal/composer"
	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/transcript"
)

// exchange drives one conversation from the command line: a composer
// feeding a synchronizer, with a poller the caller drains directly.
type exchange struct {
	backend Backend
	comp    *composer.Composer
	poller  *transcript.Poller
	sync    *transcript.Synchronizer
}

func newExchange(env *Env) *exchange {
	poller := transcript.NewPoller(env.Backend, env.Config.PollInterval())
	return &exchange{
		backend: env.Backend,
		comp:    composer.New(env.Backend),
		poller:  poller,
		sync:    transcript.New(poller, transcript.Options{MaxWait: env.Config.MaxWait()}),
	}
}

// open selects id and loads its history. An empty id starts a new chat.
func (e *exchange) open(ctx context.Context, id string) error {
	if id == "" {
		e.sync.NewChat()
		return nil
	}
	gen := e.sync.Select(id)
	msgs, err := e.backend.Messages(ctx, id)
	if err != nil {
		return err
	}
	e.sync.LoadHistory(gen, id, msgs)
	return nil
}

func (e *exchange) ask(ctx context.Context, question string) (string, error) {
	id, err := e.comp.SubmitQuestion(ctx, question, e.sync.ActiveID(), e.sync.Busy(), e.sync)
	if err != nil {
		e.sync.SubmitFailed()
		return "", err
	}
	if e.sync.ActiveID() != "" {
		return e.sync.ActiveID(), nil
	}
	return id, nil
}

// upload sends paths and returns the conversation id along with the names
// that made it before any failure.
func (e *exchange) upload(ctx context.Context, paths []string) (string, []string, error) {
	before := e.sync.Len()
	id, err := e.comp.SubmitFiles(ctx, paths, e.sync.ActiveID(), e.sync)

	var uploaded []string
	for _, m := range e.sync.Messages()[before:] {
		if pdf, ok := m.Body.(model.PDFAttachment); ok {
			uploaded = append(uploaded, pdf.Filename)
		}
	}

	if err != nil {
		e.sync.SubmitFailed()
		return id, uploaded, err
	}
	return id, uploaded, nil
}

// wait drains poll results until the synchronizer stops awaiting a reply.
// It reports whether the transcript now ends with a completed reply.
func (e *exchange) wait(ctx context.Context) (bool, error) {
	for e.sync.State() == transcript.AwaitingReply {
		select {
		case <-ctx.Done():
			e.sync.Abandon()
			return false, ctx.Err()
		case res := <-e.poller.Results():
			e.sync.ApplyPoll(res)
		}
	}
	if e.sync.Busy() {
		e.sync.Abandon()
	}
	return transcript.IsTerminal(e.sync.Messages()), nil
}

// reply returns the newest assistant message.
func (e *exchange) reply() (model.Message, bool) {
	msgs := e.sync.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsCompleteReply() {
			return msgs[i], true
		}
	}
	return model.Message{}, false
}

func (e *exchange) close() {
	e.sync.Close()
}

// HandleAsk handles the "ask" command.
func HandleAsk(ctx context.Context, args Args, env *Env) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return ErrMissingArgument("question", `cortex ask "What does section 3 conclude?" -c 42`)
	}
	if err := env.requireSession(); err != nil {
		return err
	}

	ex := newExchange(env)
	defer ex.close()
	if err := ex.open(ctx, args.Conversation); err != nil {
		return err
	}

	start := time.Now()
	id, err := ex.ask(ctx, question)
	if err != nil {
		return err
	}
	if id == "" {
		return &CommandError{Command: "ask", Action: "submit", Reason: "Cortex accepted the question but returned no conversation id", Err: ErrNoReply}
	}

	data := AskData{ConversationID: id}
	if args.NoWait {
		data.DurationMs = time.Since(start).Milliseconds()
		return printAsk(env, args, "ask", data, model.Message{})
	}

	if !args.JSON {
		fmt.Fprintln(env.errw(), DimStyle.Render("Waiting for Cortex... (Ctrl+C to stop waiting)"))
	}
	answered, err := ex.wait(ctx)
	if err != nil {
		return stoppedWaiting("ask", id, err)
	}
	if !answered {
		return &CommandError{
			Command: "ask",
			Action:  "wait",
			Reason:  fmt.Sprintf("no reply yet in conversation %s; check later with 'cortex history %s'", id, id),
			Err:     ErrNoReply,
		}
	}

	msg, _ := ex.reply()
	data.Answered = true
	data.Response = msg.Text()
	data.DurationMs = time.Since(start).Milliseconds()
	return printAsk(env, args, "ask", data, msg)
}

// HandleUpload handles the "upload" command. Files go to one conversation;
// the batch stops at the first failed upload.
func HandleUpload(ctx context.Context, args Args, env *Env) error {
	if len(args.Files) == 0 {
		return ErrMissingArgument("file", "cortex upload report.pdf [more.pdf...]")
	}
	if err := composer.CheckFiles(args.Files); err != nil {
		return err
	}
	if err := env.requireSession(); err != nil {
		return err
	}

	ex := newExchange(env)
	defer ex.close()
	if err := ex.open(ctx, args.Conversation); err != nil {
		return err
	}

	start := time.Now()
	id, uploaded, err := ex.upload(ctx, args.Files)
	if err != nil {
		failed := args.Files[len(uploaded)]
		reason := fmt.Sprintf("could not upload %s: %s", filepath.Base(failed), Describe(err))
		if len(uploaded) > 0 {
			reason += fmt.Sprintf(" (%d of %d uploaded to conversation %s)", len(uploaded), len(args.Files), id)
		}
		return &CommandError{Command: "upload", Action: "upload", Reason: reason, Err: err}
	}

	data := AskData{ConversationID: id, Uploaded: uploaded}
	if args.NoWait {
		data.DurationMs = time.Since(start).Milliseconds()
		return printAsk(env, args, "upload", data, model.Message{})
	}

	if !args.JSON {
		fmt.Fprintf(env.errw(), "%s Uploaded %s\n", RenderStatus(true), strings.Join(uploaded, ", "))
		fmt.Fprintln(env.errw(), DimStyle.Render("Waiting for Cortex to process... (Ctrl+C to stop waiting)"))
	}
	answered, err := ex.wait(ctx)
	if err != nil {
		return stoppedWaiting("upload", id, err)
	}

	var msg model.Message
	if answered {
		msg, _ = ex.reply()
		data.Answered = true
		data.Response = msg.Text()
	}
	data.DurationMs = time.Since(start).Milliseconds()
	return printAsk(env, args, "upload", data, msg)
}

func printAsk(env *Env, args Args, command string, data AskData, msg model.Message) error {
	if args.JSON {
		return NewJSONResponse(command, data).Print(env.out())
	}

	w := env.out()
	switch {
	case data.Answered:
		printMessage(w, msg)
		fmt.Fprintln(w)
		fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("conversation %s, %s", data.ConversationID, formatDurationShort(time.Duration(data.DurationMs)*time.Millisecond))))
	case command == "upload" && args.NoWait:
		fmt.Fprintf(w, "%s Uploaded %s to conversation %s\n", RenderStatus(true), strings.Join(data.Uploaded, ", "), data.ConversationID)
	case command == "upload":
		fmt.Fprintf(w, "Cortex is still processing. Check later with 'cortex history %s'\n", data.ConversationID)
	default:
		fmt.Fprintf(w, "%s Question sent to conversation %s. Check later with 'cortex history %s'\n", RenderStatus(true), data.ConversationID, data.ConversationID)
	}
	return nil
}

func stoppedWaiting(command, id string, err error) error {
	reason := fmt.Sprintf("stopped waiting; the reply will appear in 'cortex history %s'", id)
	if errors.Is(err, context.DeadlineExceeded) {
		reason = fmt.Sprintf("timed out waiting; the reply will appear in 'cortex history %s'", id)
	}
	return &CommandError{Command: command, Action: "wait", Reason: reason, Err: err}
}
