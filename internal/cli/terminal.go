// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and prompting for the cortex CLI.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
// Use this to determine if interactive prompts are possible.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for wrapping
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the current terminal width, or
// DefaultTerminalWidth when it cannot be determined.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsEnabled     bool
	colorsEnabledOnce sync.Once
)

// ColorsEnabled returns true if colored output should be used.
// Respects NO_COLOR and FORCE_COLOR; otherwise follows stdout TTY detection.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			colorsEnabled = false
			return
		}
		if os.Getenv("FORCE_COLOR") != "" {
			colorsEnabled = true
			return
		}
		colorsEnabled = IsStdoutTTY()
	})
	return colorsEnabled
}

// GetColorProfile returns the appropriate termenv color profile.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// INTERACTIVE INPUT
// =============================================================================

// Prompter reads answers from the user. Tests substitute a scripted reader.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// tty reports whether in is a terminal, enabling hidden password input.
	tty         bool
	fd          int
	interactive bool
}

// NewTerminalPrompter prompts on stdin, writing questions to stderr so
// that --json output on stdout stays clean.
func NewTerminalPrompter() *Prompter {
	return &Prompter{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stderr,
		tty:         IsTTY(),
		fd:          int(os.Stdin.Fd()),
		interactive: IsTTY(),
	}
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: true}
}

// Line asks a question and returns the trimmed answer.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	input, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Password asks for a secret. On a terminal the input is not echoed.
// Surrounding whitespace is kept; only the line ending is dropped.
func (p *Prompter) Password(prompt string) (string, error) {
	if !p.tty {
		fmt.Fprint(p.out, prompt)
		input, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || input == "") {
			return "", err
		}
		return strings.TrimRight(input, "\r\n"), nil
	}

	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Line(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Interactive reports whether the prompter can ask questions.
func (p *Prompter) Interactive() bool {
	return p.interactive
}
