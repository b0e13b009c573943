// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for docent.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdUpload
	CmdDocs
	CmdConfig
	CmdExport
	CmdWatch
	CmdSearch
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	Backend string // Override backend URL

	// Command-specific
	Query      string // Question text or search query
	File       string // File path for upload
	Document   string // Document ID (--doc)
	ConfigKey  string
	ConfigVal  string
	Subcommand string
	Format     string // Export format (markdown, html, json)
	Output     string // Output file or directory

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options
	Options map[string]string
}

const usageText = `docent - terminal client for PDF document analysis

Docent talks to a local document-analysis backend. Upload PDFs, then
chat with them, summarize them, extract keywords, drill with
flashcards, and keep notes, all from the terminal.

Usage:
  docent                      Start TUI (default)
  docent ask "question"       Ask the current document a single question
  docent chat                 Interactive chat REPL
  docent upload FILE          Upload a PDF
  docent docs [list|delete]   Document library management
  docent status               Backend and library status
  docent config [show|get|set|path]  Configuration
  docent export [subcommand]  Export summaries, notes, flashcards
  docent watch [DIR]          Watch a directory and auto-upload PDFs
  docent search QUERY         Full-text search across notes and chat
  docent version              Show version
  docent help                 Show this help

Document Commands:
  docent docs list            List uploaded documents (aliases: ls, l)
  docent docs delete <id>     Delete a document
    --confirm                 Skip confirmation prompt
  docent upload paper.pdf     Upload a PDF (alias: up)

Ask and Chat:
  docent ask "What is the main finding?"
    --doc ID                  Target a specific document (default: latest)
    --json                    Output answer as JSON
  docent chat                 Start REPL against the latest document
    --doc ID                  Target a specific document
  Chat slash commands: /help /doc /summary /keywords /export /search /clear /history /quit

Export Commands:
  docent export summary       Export the document summary
  docent export notes         Export notes
  docent export flashcards    Export the flashcard deck
  docent export all           Export everything for a document
    --doc ID                  Source document (default: latest)
    --format markdown|html|json   Output format (default: from config)
    --output DIR              Destination directory (default: from config)
  Chat transcripts are exported with /export inside 'docent chat'.

Watch Command:
  docent watch ~/papers       Upload new PDFs appearing in a directory
    --once                    Scan existing files and exit

Search Command:
  docent search "attention"   Search notes for a document
    --doc ID                  Target a specific document (default: latest)
    --limit N                 Maximum results (default: 20)

Config Commands:
  docent config show          Show resolved configuration
  docent config get KEY       Get a value (e.g., backend.url)
  docent config set KEY VALUE Set and save a value
  docent config path          Print config file location

Global Flags:
  -q, --quiet     Minimal output
  --verbose       Debug output
  --json          Output in JSON format
  --backend URL   Override backend URL for this invocation

Environment:
  DOCENT_BACKEND_URL          Backend base URL (default http://127.0.0.1:8000)
  NO_COLOR                    Disable colored output

Examples:
  docent                              Start the TUI
  docent upload thesis.pdf            Upload a document
  docent ask "Summarize chapter 2"    One-shot question
  docent ask --doc 3f2a "Key risks?"  Question against a specific document
  docent chat                         Interactive session
  docent docs list --json             Machine-readable library listing
  docent export summary --format html --output summary.html
  docent watch ~/inbox                Auto-upload new PDFs
  docent search "gradient descent" --limit 5
  docent config set backend.url http://localhost:9000

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("docent version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for testing.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "upload", "up":
		parseUploadArgs(&parsedArgs, remaining)
		return CmdUpload, parsedArgs

	case "docs", "documents", "d":
		// Detailed argument parsing is done in docs.go HandleDocsCommand
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdDocs, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "export":
		// Detailed argument parsing is done in export_cmd.go HandleExportCommand
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdExport, parsedArgs

	case "watch":
		parseWatchArgs(&parsedArgs, remaining)
		return CmdWatch, parsedArgs

	case "search", "find":
		parseSearchArgs(&parsedArgs, remaining)
		return CmdSearch, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command. The caller prints a suggestion via SuggestCommand.
		parsedArgs.Subcommand = cmd
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--backend":
			if i+1 < len(args) {
				i++
				parsedArgs.Backend = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--backend=") {
				parsedArgs.Backend = strings.TrimPrefix(arg, "--backend=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-d", "--doc", "--document":
			if i+1 < len(remaining) {
				i++
				args.Document = remaining[i]
			}
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--doc=") {
				args.Document = strings.TrimPrefix(arg, "--doc=")
			} else if strings.HasPrefix(arg, "--file=") {
				args.File = strings.TrimPrefix(arg, "--file=")
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-d", "--doc", "--document":
			if i+1 < len(remaining) {
				i++
				args.Document = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--doc=") {
				args.Document = strings.TrimPrefix(arg, "--doc=")
			}
		}
	}
}

// parseUploadArgs parses upload command specific arguments.
func parseUploadArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") && args.File == "" {
			args.File = arg
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// parseWatchArgs parses watch command specific arguments.
func parseWatchArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--once":
			args.Options["once"] = "true"
		case !strings.HasPrefix(arg, "-") && args.Output == "":
			args.Output = arg // watch directory
		}
	}
}

// parseSearchArgs parses search command specific arguments.
func parseSearchArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]
		switch {
		case arg == "--doc" || arg == "-d":
			if i+1 < len(remaining) {
				i++
				args.Document = remaining[i]
			}
		case strings.HasPrefix(arg, "--doc="):
			args.Document = strings.TrimPrefix(arg, "--doc=")
		case arg == "--limit":
			if i+1 < len(remaining) {
				i++
				args.Options["limit"] = remaining[i]
			}
		case strings.HasPrefix(arg, "--limit="):
			args.Options["limit"] = strings.TrimPrefix(arg, "--limit=")
		case !strings.HasPrefix(arg, "-"):
			query = append(query, arg)
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// ERROR HANDLING: Errors must not be silently ignored

// HandleAsk handles the "ask" command.
// This delegates to the full implementation in ask.go.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
// This delegates to the full implementation in chat.go.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleVersionWithJSON handles the "version" command with JSON output support.
func HandleVersionWithJSON(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		resp := NewJSONResponse("version", data)
		resp.Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}

// HandleUnknown handles an unrecognized command: prints an error and,
// when a close match exists, a suggestion.
func HandleUnknown(args Args) {
	fmt.Fprintf(os.Stderr, "docent: unknown command %q\n", args.Subcommand)
	if suggestion := SuggestCommand(args.Subcommand); suggestion != "" {
		fmt.Fprintf(os.Stderr, "Did you mean %q?\n", suggestion)
	}
	fmt.Fprintln(os.Stderr, "Run 'docent help' for usage.")
	os.Exit(ExitUsageError)
}
