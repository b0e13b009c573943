// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the docent CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles "docent chat", an interactive REPL for conversing with a
// document. The TUI offers the richer experience; this is the
// quick-and-scriptable path.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   docent chat                  Chat with the latest uploaded document
//   docent chat --doc 3f2a       Chat with a specific document
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /doc [id]           Show or switch the active document
//   /summary            Show the document summary
//   /keywords           Show document keywords
//   /clear, /c          Clear conversation history
//   /history            Show conversation history
//   /export [format]    Save the transcript to a file
//   /search QUERY       Search notes and this conversation
//   /status, /s         Show session statistics
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current generation
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/config"
	"github.com/docentlabs/docent/internal/export"
	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/search"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// Prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	// Welcome banner style
	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	// Info style
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// Command style
	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// Warning style
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// Session summary header
	summaryHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}

	cli.LoadHistory()

	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	// Conversation history for the active document
	Messages []api.ChatMessage

	// Active document
	Doc *api.DocumentResponse

	// Configuration
	Config *config.Config
	Quiet  bool

	// Tracking
	StartTime time.Time
	Turns     int

	// Backend client
	Client *api.Client

	// Cancel function for current stream
	CancelFunc context.CancelFunc

	// Input history handler
	InputCLI *ChatCLI
}

// NewChatSession creates a new chat session.
func NewChatSession(args Args) *ChatSession {
	return &ChatSession{
		Messages:  make([]api.ChatMessage, 0),
		Config:    config.Global(),
		Quiet:     args.Quiet,
		StartTime: time.Now(),
		Client:    buildClient(args),
		InputCLI:  NewChatCLI(),
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command with full interactive support.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	session := NewChatSession(args)

	// Check the backend is reachable before entering the loop
	healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := session.Client.Health(healthCtx)
	healthCancel()
	if err != nil {
		return fmt.Errorf("backend is not reachable at %s: %w",
			session.Client.GetConfig().BaseURL, err)
	}

	resolveCtx, resolveCancel := commandContext()
	doc, err := resolveDocument(resolveCtx, session.Client, args.Document)
	resolveCancel()
	if err != nil {
		return err
	}
	session.Doc = doc

	if !session.Quiet {
		printWelcome(session)
	}

	// Ensure input history is saved on exit
	defer session.InputCLI.Close()

	// Set up signal handling for graceful Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig == os.Interrupt || sig == syscall.SIGTERM {
				// First Ctrl+C cancels current generation
				if session.CancelFunc != nil {
					session.CancelFunc()
					session.CancelFunc = nil
					fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
				}
			}
		}
	}()

	// Main REPL loop using liner for input history
	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("docent> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C at the prompt exits gracefully
				fmt.Println()
				printExitSummary(session)
				return nil
			}
			// EOF (Ctrl+D) or other error, exit gracefully
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)

		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !shouldContinue {
				printExitSummary(session)
				return nil
			}
			continue
		}

		// Handle exit/quit without slash
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		if err := processMessage(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage sends a message to the backend and streams the response.
func processMessage(session *ChatSession, input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	session.CancelFunc = cancel
	defer func() {
		session.CancelFunc = nil
		cancel()
	}()

	// USABILITY: Render markdown on TTY for better formatting.
	// Markdown needs the full answer, so streaming is deferred there.
	useMarkdown := IsStdoutTTY()

	fmt.Println() // Space before response

	session.Messages = append(session.Messages, api.NewUserMessage(input))

	var response strings.Builder
	var streamErr error
	startTime := time.Now()

	err := session.Client.ChatStream(ctx, session.Doc.ID, session.Messages, func(chunk api.StreamChunk) {
		if chunk.Err != nil {
			fmt.Fprintf(os.Stderr, "\n%s %v\n", ErrorStyle.Render("[Error]"), chunk.Err)
			streamErr = chunk.Err
			return
		}

		response.WriteString(chunk.Content)

		if !useMarkdown {
			streamToStdout(chunk.Content)
		}
	})

	if err != nil || streamErr != nil {
		// Remove the user message so a failed turn is retryable
		if len(session.Messages) > 0 {
			session.Messages = session.Messages[:len(session.Messages)-1]
		}
		if err != nil {
			return WrapError(err, "streaming failed")
		}
		return streamErr
	}

	responseContent := response.String()

	if useMarkdown {
		displayResponse(responseContent)
	}

	session.Messages = append(session.Messages, api.NewAssistantMessage(responseContent))
	session.Turns++

	fmt.Println()

	if !session.Quiet {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			infoStyle.Render("[Stats]"),
			time.Since(startTime).Round(time.Millisecond))
	}

	// Offer follow-up questions when the backend supports them
	if session.Config.Features.SuggestionsEnabled {
		showSuggestions(session)
	}

	fmt.Println()

	return nil
}

// showSuggestions fetches and displays follow-up question suggestions.
// Failures are silent: suggestions are decoration, not a required step.
func showSuggestions(session *ChatSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	suggestions, err := session.Client.Suggestions(ctx, session.Doc.ID, session.Messages)
	if err != nil || len(suggestions) == 0 {
		return
	}

	fmt.Fprintln(os.Stderr, infoStyle.Render("Follow-ups:"))
	for _, s := range suggestions {
		fmt.Fprintf(os.Stderr, "  %s %s\n", DimStyle.Render("-"), s)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func handleSlashCommand(cmd string, session *ChatSession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?":
		printChatHelp()
		return true, nil

	case "/clear", "/c":
		session.Messages = session.Messages[:0]
		fmt.Println(commandStyle.Render("[Conversation cleared]"))
		return true, nil

	case "/doc", "/d":
		return handleDocCommand(session, args)

	case "/summary":
		return handleSummaryCommand(session)

	case "/keywords":
		return handleKeywordsCommand(session)

	case "/status", "/s":
		printStatus(session)
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	case "/history":
		printHistory(session)
		return true, nil

	case "/export":
		return handleExportCommand(session, args)

	case "/search":
		return handleSearchSlash(session, args)

	case "/":
		printChatHelp()
		return true, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// handleDocCommand handles the /doc command: show or switch the document.
func handleDocCommand(session *ChatSession, args []string) (bool, error) {
	if len(args) == 0 {
		fmt.Printf("%s %s (%s)\n",
			infoStyle.Render("[Document]"),
			commandStyle.Render(session.Doc.Filename),
			session.Doc.ID)
		return true, nil
	}

	ctx, cancel := commandContext()
	defer cancel()

	doc, err := resolveDocument(ctx, session.Client, args[0])
	if err != nil {
		return true, err
	}

	if doc.ID != session.Doc.ID {
		// Conversation history belongs to the old document
		session.Doc = doc
		session.Messages = session.Messages[:0]
		fmt.Printf("%s Switched to %s (history cleared)\n",
			commandStyle.Render("[OK]"), doc.Filename)
	}

	return true, nil
}

// handleSummaryCommand fetches and displays the document summary.
func handleSummaryCommand(session *ChatSession) (bool, error) {
	fmt.Println(infoStyle.Render("[Generating summary...]"))

	ctx, cancel := commandContext()
	defer cancel()

	summary, err := session.Client.Summary(ctx, session.Doc.ID, session.Config.Features.SummaryLength)
	if err != nil {
		return true, WrapError(err, "summary failed")
	}

	fmt.Println()
	displayResponse(summary)
	fmt.Println()
	return true, nil
}

// handleKeywordsCommand fetches and displays document keywords.
func handleKeywordsCommand(session *ChatSession) (bool, error) {
	ctx, cancel := commandContext()
	defer cancel()

	keywords, err := session.Client.Keywords(ctx, session.Doc.ID, session.Config.Features.KeywordCount)
	if err != nil {
		return true, WrapError(err, "keywords failed")
	}

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Keywords"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	for _, kw := range keywords {
		fmt.Printf("  %s %s\n", DimStyle.Render("-"), kw)
	}
	fmt.Println()
	return true, nil
}

// handleExportCommand writes the current transcript to a file. An
// optional argument picks the format, otherwise the configured
// default applies.
func handleExportCommand(session *ChatSession, args []string) (bool, error) {
	if len(session.Messages) == 0 {
		fmt.Println(warningStyle.Render("Nothing to export yet. Ask a question first."))
		return true, nil
	}

	format := session.Config.Export.DefaultFormat
	if len(args) > 0 {
		format = args[0]
	}
	outDir := session.Config.Export.Dir
	if outDir == "" {
		outDir = "."
	}

	bundle := &export.Bundle{
		Kind: "chat",
		Document: &model.Document{
			ID:         session.Doc.ID,
			Filename:   session.Doc.Filename,
			FileSize:   session.Doc.FileSize,
			PageCount:  session.Doc.PageCount,
			ChunkCount: session.Doc.ChunkCount,
			CreatedAt:  session.Doc.CreatedTime(),
		},
		ExportedAt: time.Now(),
	}
	for _, msg := range session.Messages {
		role := model.RoleAssistant
		if msg.Role == "user" {
			role = model.RoleUser
		}
		bundle.Transcript = append(bundle.Transcript, &model.Message{
			Role:    role,
			Content: msg.Content,
		})
	}

	opts := &export.Options{
		OutputDir:       outDir,
		IncludeMetadata: true,
		Theme:           session.Config.UI.Theme,
	}
	path, err := export.ExportToFile(bundle, format, opts)
	if err != nil {
		return true, WrapError(err, "export failed")
	}

	fmt.Printf("%s Transcript saved to %s\n",
		commandStyle.Render("[OK]"), HighlightStyle.Render(path))
	return true, nil
}

// handleSearchSlash searches the document's notes plus the current
// conversation. The index is rebuilt per invocation; both corpora are
// small and it keeps the session free of index bookkeeping.
func handleSearchSlash(session *ChatSession, args []string) (bool, error) {
	query := strings.Join(args, " ")
	if query == "" {
		fmt.Println(warningStyle.Render("Usage: /search QUERY"))
		return true, nil
	}

	ctx, cancel := commandContext()
	defer cancel()

	var entries []search.Entry
	notes, err := session.Client.ListNotes(ctx, session.Doc.ID)
	if err != nil {
		// Notes are optional context; keep searching the transcript.
		fmt.Println(infoStyle.Render("(notes unavailable, searching conversation only)"))
	} else {
		for i := range notes {
			n := noteToModel(&notes[i])
			entries = append(entries, search.Entry{
				Kind:  search.KindNote,
				Ref:   n.ID,
				Title: n.Title,
				Body:  n.Content,
				When:  n.CreatedAt,
			})
		}
	}
	for i, msg := range session.Messages {
		title := "You"
		if msg.Role == "assistant" {
			title = "Assistant"
		}
		entries = append(entries, search.Entry{
			Kind:  search.KindMessage,
			Ref:   fmt.Sprintf("turn-%d", i+1),
			Title: title,
			Body:  msg.Content,
		})
	}

	ix, err := search.NewIndex()
	if err != nil {
		return true, WrapError(err, "search failed")
	}
	defer ix.Close()

	if err := ix.Rebuild(session.Doc.ID, entries); err != nil {
		return true, WrapError(err, "search failed")
	}
	results, err := ix.Search(query, 10)
	if err != nil {
		return true, WrapError(err, "search failed")
	}

	if len(results) == 0 {
		fmt.Printf("No matches for %q.\n", query)
		return true, nil
	}
	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Matches"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%2d. %s %s\n", i+1, title, DimStyle.Render("["+string(r.Kind)+"]"))
		fmt.Printf("    %s\n", r.Snippet)
	}
	fmt.Println()
	return true, nil
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(session *ChatSession) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("docent interactive chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Document:"),
		commandStyle.Render(session.Doc.Filename))
	fmt.Printf("%s %d pages, %s\n",
		infoStyle.Render("Size:"),
		session.Doc.PageCount,
		formatBytes(session.Doc.FileSize))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Backend:"),
		session.Client.GetConfig().BaseURL)

	fmt.Println()
	fmt.Println(infoStyle.Render("Type your message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

// printChatHelp prints available commands.
func printChatHelp() {
	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Available Commands"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/doc [id]", "Show or switch the active document"},
		{"/summary", "Show the document summary"},
		{"/keywords", "Show document keywords"},
		{"/clear, /c", "Clear conversation history"},
		{"/history", "Show conversation history"},
		{"/export [format]", "Save the transcript to a file"},
		{"/search QUERY", "Search notes and this conversation"},
		{"/status, /s", "Show session statistics"},
		{"/quit, /q", "Exit chat"},
	}

	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-15s", c.cmd)),
			infoStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+C cancels current generation, Ctrl+D exits"))
	fmt.Println()
}

// printStatus prints session statistics.
func printStatus(session *ChatSession) {
	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Status"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	fmt.Printf("  %s %s (%s)\n",
		infoStyle.Render("Document:"),
		commandStyle.Render(session.Doc.Filename),
		session.Doc.ID)
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())
	fmt.Printf("  %s %d turns, %d messages\n",
		infoStyle.Render("History:"),
		session.Turns,
		len(session.Messages))

	fmt.Println()
}

// printHistory prints conversation history.
func printHistory(session *ChatSession) {
	if len(session.Messages) == 0 {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Conversation History"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 25)))
	fmt.Println()

	for i, msg := range session.Messages {
		role := msg.Role
		switch role {
		case "user":
			role = promptStyle.Render("You")
		case "assistant":
			role = welcomeStyle.Render("Docent")
		}

		// Rune-based truncation for Unicode safety
		content := msg.Content
		runes := []rune(content)
		if len(runes) > 100 {
			content = string(runes[:100]) + "..."
		}
		content = strings.ReplaceAll(content, "\n", " ")

		fmt.Printf("  %d. %s: %s\n", i+1, role, content)
	}

	fmt.Println()
}

// printExitSummary prints the session summary on exit.
func printExitSummary(session *ChatSession) {
	if session.Turns == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Summary"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 15)))

	fmt.Printf("  %s %s (%s)\n",
		infoStyle.Render("Document:"),
		session.Doc.Filename,
		session.Doc.ID)
	fmt.Printf("  %s %d\n",
		infoStyle.Render("Turns:"),
		session.Turns)
	fmt.Printf("  %s %s\n",
		infoStyle.Render("Duration:"),
		elapsed.String())

	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
