// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY, width, and color detection for the docent CLI.
//
// USABILITY: piped output must stay plain and parseable
//
// Everything here answers one question: is a human looking at this
// stream? Interactive terminals get colors, markdown, and prompts;
// pipes get plain text.

package cli

import (
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY AND WIDTH
// =============================================================================

const (
	defaultWidth = 80
	minWrapWidth = 40
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether stdin is a terminal. Commands that prompt or
// read keystrokes check this before doing either.
func IsTTY() bool {
	return isTerminal(os.Stdin)
}

// IsStdoutTTY reports whether stdout is a terminal. Gates colored and
// markdown-rendered output.
func IsStdoutTTY() bool {
	return isTerminal(os.Stdout)
}

// GetTerminalWidth returns the stdout width for wrapping, clamped to a
// sane minimum. Falls back to 80 columns when stdout is not a terminal.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil || w <= 0:
		return defaultWidth
	case w < minWrapWidth:
		return minWrapWidth
	default:
		return w
	}
}

// WrapText word-wraps text to maxWidth columns, preserving existing
// line breaks. A zero or negative maxWidth uses the terminal width.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = GetTerminalWidth()
	}
	// Keep a two-column right margin on anything wider than a sliver.
	if maxWidth > 10 {
		maxWidth -= 2
	}

	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		wrapLine(&out, line, maxWidth)
	}
	return out.String()
}

func wrapLine(out *strings.Builder, line string, width int) {
	if len(line) <= width {
		out.WriteString(line)
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	col := len(words[0])
	out.WriteString(words[0])
	for _, w := range words[1:] {
		if col+1+len(w) > width {
			out.WriteByte('\n')
			out.WriteString(w)
			col = len(w)
			continue
		}
		out.WriteByte(' ')
		out.WriteString(w)
		col += 1 + len(w)
	}
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var (
	colorsOn   bool
	colorsOnce sync.Once
)

// ColorsEnabled reports whether output should be colored. NO_COLOR
// (https://no-color.org/) disables unconditionally, FORCE_COLOR enables
// unconditionally, otherwise stdout must be a terminal. The answer is
// fixed on first call.
func ColorsEnabled() bool {
	colorsOnce.Do(func() {
		switch {
		case os.Getenv("NO_COLOR") != "":
			colorsOn = false
		case os.Getenv("FORCE_COLOR") != "":
			colorsOn = true
		default:
			colorsOn = IsStdoutTTY()
		}
	})
	return colorsOn
}

// GetColorProfile returns the termenv profile matching ColorsEnabled:
// Ascii when colors are off, the detected profile otherwise.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// INTERACTIVE REQUIREMENTS
// =============================================================================

// TTYRequiredError reports an interactive command run without a terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation == "" {
		return "stdin is not a terminal; interactive input not available"
	}
	return "stdin is not a terminal; cannot " + e.Operation + " interactively"
}

// RequiresTTY errors when stdin is not a terminal. Interactive commands
// call it before touching the terminal.
func RequiresTTY(operation string) error {
	if !IsTTY() {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}
