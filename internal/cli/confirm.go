// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation handling for destructive commands.
//
// One pattern for every delete:
//  1. If --yes is present, proceed without prompting
//  2. In --json mode, require --yes (no interactive prompts in JSON mode)
//  3. If stdin is not a terminal, require --yes (can't prompt)
//  4. Otherwise, ask

package cli

import (
	"errors"
	"fmt"
)

// ConfirmationOptions describes how a destructive action was requested.
type ConfirmationOptions struct {
	// Yes indicates --yes was passed (skip interactive prompt)
	Yes bool
	// JSONMode indicates --json was passed
	JSONMode bool
}

// ErrConfirmationRequired is returned when a prompt is needed but cannot be shown.
var ErrConfirmationRequired = errors.New("confirmation required: pass --yes")

// RequireConfirmation checks that the user confirmed action.
//
// Example:
//
//	ok, err := RequireConfirmation(p, "delete conversation \"Q3 report\"", ConfirmationOptions{Yes: args.Yes})
//	if err != nil || !ok {
//	    return err
//	}
func RequireConfirmation(p *Prompter, action string, opts ConfirmationOptions) (bool, error) {
	if opts.Yes {
		return true, nil
	}
	if opts.JSONMode || p == nil || !p.Interactive() {
		return false, &ValidationError{
			Field:   "--yes",
			Reason:  ErrConfirmationRequired.Error(),
			Example: "cortex delete <id> --yes",
		}
	}
	return p.Confirm(fmt.Sprintf("Are you sure you want to %s?", action))
}
