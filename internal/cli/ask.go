// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for the docent CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles "docent ask", which sends one question against a document and
// streams the answer to stdout.
//
// Command: ask [question]
// Short:   Ask the current document a single question
//
// Examples:
//   docent ask "What is the main finding?"
//   docent ask --doc 3f2a "What are the key risks?"
//   docent ask --json "List the datasets used"
//   cat questions.txt | docent ask
//
// Flags:
//   -d, --doc ID        Target document (default: latest upload)
//   --json              Output answer as JSON
//   -v, --verbose       Verbose output
//   -q, --quiet         Minimal output
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/docentlabs/docent/internal/api"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for markdown output.
// USABILITY: Renders markdown answers with syntax highlighting and formatting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse displays an answer with markdown rendering when appropriate.
// Only renders markdown when stdout is a TTY to avoid corrupting piped output.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Print(response)
	}
}

// streamToStdout prints tokens directly to stdout.
func streamToStdout(token string) {
	fmt.Print(token)
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand handles the "ask" command with streaming support.
func HandleAskCommand(args Args) error {
	question := args.Query

	// If no question from args, try reading from stdin (for piped input)
	if question == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			reader := bufio.NewReader(os.Stdin)
			stdinData, err := io.ReadAll(reader)
			if err == nil && len(stdinData) > 0 {
				question = strings.TrimSpace(string(stdinData))
				if !args.Quiet {
					fmt.Fprintf(os.Stderr, "%s Read question from stdin (%d bytes)\n",
						InfoStyle.Render("[+]"), len(stdinData))
				}
			}
		}
	}

	if question == "" {
		err := fmt.Errorf("no question provided. Usage: docent ask \"your question\"")
		if args.JSON {
			resp := NewJSONErrorResponse("ask", err)
			resp.Print()
		}
		return err
	}

	client := buildClient(args)
	ctx, cancel := commandContext()
	defer cancel()

	doc, err := resolveDocument(ctx, client, args.Document)
	if err != nil {
		if args.JSON {
			resp := NewJSONErrorResponse("ask", err)
			resp.Print()
		}
		return err
	}

	if !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			DimStyle.Render("Document:"), doc.Filename)
		fmt.Fprintln(os.Stderr)
	}

	// USABILITY: Render markdown on TTY for better formatting, stream plain
	// for pipes. Markdown needs the full answer, so streaming is deferred.
	useMarkdown := IsStdoutTTY() && !args.JSON

	var fullAnswer strings.Builder
	var streamErr error

	startTime := time.Now()
	messages := []api.ChatMessage{api.NewUserMessage(question)}

	err = client.ChatStream(ctx, doc.ID, messages, func(chunk api.StreamChunk) {
		if chunk.Err != nil {
			if !args.JSON {
				fmt.Fprintf(os.Stderr, "\n%s %v\n", ErrorStyle.Render("[Error]"), chunk.Err)
			}
			streamErr = chunk.Err
			return
		}

		fullAnswer.WriteString(chunk.Content)

		if !args.JSON && !useMarkdown {
			streamToStdout(chunk.Content)
		}
	})

	duration := time.Since(startTime)

	if err != nil {
		if args.JSON {
			resp := NewJSONErrorResponse("ask", err)
			resp.Print()
		}
		return WrapError(err, "streaming failed")
	}

	if streamErr != nil {
		if args.JSON {
			resp := NewJSONErrorResponse("ask", streamErr)
			resp.Print()
		}
		return streamErr
	}

	if args.JSON {
		data := AskData{
			DocumentID: doc.ID,
			Question:   question,
			Answer:     fullAnswer.String(),
			DurationMs: duration.Milliseconds(),
		}
		resp := NewJSONResponse("ask", data)
		return resp.Print()
	}

	if useMarkdown {
		displayResponse(fullAnswer.String())
	}

	fmt.Println()

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			DimStyle.Render("Answered in"), formatDurationShort(duration))
	}

	return nil
}
