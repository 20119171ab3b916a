// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the cortex TUI.

Components are plain render helpers or small stateful widgets; none of them
talk to the backend. Screens in ui/chat and ui/authform own them.

# Transcript

MessageBubble (message.go) renders one message by switching on its body
variant: text becomes a chat bubble, an attachment a PDF card. Assistant text
goes through RenderMarkup (markup.go), which understands numbered items,
bullets, **bold** and `code`. TranscriptView (transcript.go) stacks bubbles,
appends the thinking bubble and falls back to the "Ready to analyze" state.

# Chrome

Header (header.go) - conversation title, document names, activity indicator.
Indicator (indicator.go) - spinner with "Indexing..." / "Thinking..." labels.
Sidebar (sidebar.go) - history list with document badges.
ConfirmDialog (dialog.go) - modal confirmation used for deletes.
*/
package components
