// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution.
//
// This test file covers argument parsing, command dispatch, typo
// suggestions, and the shared display helpers.
package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"delete", "--doc", "abc123"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("doc") != "abc123" {
					t.Errorf("Flag(doc) = %q, want %q", p.Flag("doc"), "abc123")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"summary", "--format=html"},
			wantSub: "summary",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "html" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "html")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"delete", "--confirm"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("confirm") {
					t.Error("BoolFlag(confirm) should be true")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"search", "sample", "size", "bias"},
			wantSub: "search",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("PositionalCount() = %d, want 4", p.PositionalCount())
				}
				joined := strings.Join(p.PositionalFrom(1), " ")
				if joined != "sample size bias" {
					t.Errorf("PositionalFrom(1) joined = %q, want %q", joined, "sample size bias")
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"notes", "--doc", "abc123", "--format", "json"},
			wantSub: "notes",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("doc") != "abc123" {
					t.Errorf("Flag(doc) = %q", p.Flag("doc"))
				}
				if p.Flag("format") != "json" {
					t.Errorf("Flag(format) = %q", p.Flag("format"))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	p := NewArgParser([]string{"flashcards", "--count", "15"})
	if got := p.FlagIntOrDefault("count", 10); got != 15 {
		t.Errorf("FlagIntOrDefault(count) = %d, want 15", got)
	}
	if got := p.FlagIntOrDefault("missing", 10); got != 10 {
		t.Errorf("FlagIntOrDefault(missing) = %d, want default 10", got)
	}

	p = NewArgParser([]string{"flashcards", "--count", "abc"})
	if got := p.FlagIntOrDefault("count", 10); got != 10 {
		t.Errorf("FlagIntOrDefault with bad value = %d, want default 10", got)
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", p.Subcommand())
	}
	if p.PositionalCount() != 0 {
		t.Errorf("PositionalCount() = %d, want 0", p.PositionalCount())
	}
}

func TestParseIntWithValidation(t *testing.T) {
	if _, err := ParseIntWithValidation("42", "count"); err != nil {
		t.Errorf("valid int rejected: %v", err)
	}
	if _, err := ParseIntWithValidation("nope", "count"); err == nil {
		t.Error("invalid int accepted")
	}
	if _, err := ParseIntWithValidation("nope", "count"); err != nil {
		if !strings.Contains(err.Error(), "count") {
			t.Errorf("error %q should name the field", err)
		}
	}
}

// =============================================================================
// COMMAND DISPATCH TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{
			name:        "no args defaults to tui",
			args:        []string{},
			wantCommand: CmdTUI,
		},
		{
			name:        "ask command",
			args:        []string{"ask", "What", "is", "the", "main", "finding?"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Query != "What is the main finding?" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{
			name:        "ask with doc flag",
			args:        []string{"ask", "--doc", "abc123", "question"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Document != "abc123" {
					t.Errorf("Document = %q, want abc123", a.Document)
				}
			},
		},
		{
			name:        "chat command",
			args:        []string{"chat"},
			wantCommand: CmdChat,
		},
		{
			name:        "status alias",
			args:        []string{"s"},
			wantCommand: CmdStatus,
		},
		{
			name:        "upload with file",
			args:        []string{"upload", "paper.pdf"},
			wantCommand: CmdUpload,
			validate: func(t *testing.T, a Args) {
				if a.File != "paper.pdf" {
					t.Errorf("File = %q, want paper.pdf", a.File)
				}
			},
		},
		{
			name:        "docs alias",
			args:        []string{"documents"},
			wantCommand: CmdDocs,
		},
		{
			name:        "config set",
			args:        []string{"config", "set", "backend.url", "http://localhost:9000"},
			wantCommand: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "set" {
					t.Errorf("Subcommand = %q, want set", a.Subcommand)
				}
				if a.ConfigKey != "backend.url" {
					t.Errorf("ConfigKey = %q", a.ConfigKey)
				}
			},
		},
		{
			name:        "export command",
			args:        []string{"export", "summary", "--format", "html"},
			wantCommand: CmdExport,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "summary" {
					t.Errorf("Subcommand = %q, want summary", a.Subcommand)
				}
			},
		},
		{
			name:        "watch once",
			args:        []string{"watch", "--once", "/tmp/inbox"},
			wantCommand: CmdWatch,
			validate: func(t *testing.T, a Args) {
				if a.Options["once"] != "true" {
					t.Error("once option not set")
				}
				if a.Output != "/tmp/inbox" {
					t.Errorf("Output = %q, want /tmp/inbox", a.Output)
				}
			},
		},
		{
			name:        "search with terms",
			args:        []string{"search", "sample", "size"},
			wantCommand: CmdSearch,
			validate: func(t *testing.T, a Args) {
				if a.Query != "sample size" {
					t.Errorf("Query = %q, want 'sample size'", a.Query)
				}
			},
		},
		{
			name:        "version flag",
			args:        []string{"--version"},
			wantCommand: CmdVersion,
		},
		{
			name:        "help flag",
			args:        []string{"-h"},
			wantCommand: CmdHelp,
		},
		{
			name:        "global json flag",
			args:        []string{"--json", "status"},
			wantCommand: CmdStatus,
			validate: func(t *testing.T, a Args) {
				if !a.JSON {
					t.Error("JSON should be true")
				}
			},
		},
		{
			name:        "global backend override",
			args:        []string{"--backend", "http://10.0.0.5:8000", "status"},
			wantCommand: CmdStatus,
			validate: func(t *testing.T, a Args) {
				if a.Backend != "http://10.0.0.5:8000" {
					t.Errorf("Backend = %q", a.Backend)
				}
			},
		},
		{
			name:        "quiet flag",
			args:        []string{"-q", "upload", "paper.pdf"},
			wantCommand: CmdUpload,
			validate: func(t *testing.T, a Args) {
				if !a.Quiet {
					t.Error("Quiet should be true")
				}
			},
		},
		{
			name:        "unknown command",
			args:        []string{"uplod", "paper.pdf"},
			wantCommand: CmdUnknown,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "uplod" {
					t.Errorf("Subcommand = %q, want uplod", a.Subcommand)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			if cmd != tt.wantCommand {
				t.Errorf("ParseArgs() command = %v, want %v", cmd, tt.wantCommand)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

// =============================================================================
// TYPO SUGGESTION TESTS (suggest.go)
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"uplod", "upload"},
		{"stauts", "status"},
		{"chta", "chat"},
		{"dcos", "docs"},
		{"exprot", "export"},
		{"cofnig", "config"},
		{"x", ""},              // too short
		{"zzzzzzzzzz", ""},     // nothing close
		{"upload", "upload"},   // exact match
	}

	for _, tt := range tests {
		if got := SuggestCommand(tt.input); got != tt.want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// =============================================================================
// ERROR HANDLING TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"validation error", NewValidationError("field", "v", "bad"), ExitUsageError},
		{"not found error", NewNotFoundError("document", "abc"), ExitNotFoundError},
		{"config error", errors.New("config file is malformed"), ExitConfigError},
		{"timeout error", errors.New("request timed out after 30s"), ExitTimeoutError},
		{"deadline error", errors.New("context deadline exceeded"), ExitTimeoutError},
		{"network error", errors.New("connection refused"), ExitNetworkError},
		{"generic error", errors.New("something odd"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	verr := NewValidationError("count", "abc", "must be a number")
	if !IsValidationError(verr) {
		t.Error("IsValidationError failed for ValidationError")
	}
	if IsNotFoundError(verr) {
		t.Error("ValidationError detected as NotFoundError")
	}

	nerr := NewNotFoundError("document", "abc123")
	if !IsNotFoundError(nerr) {
		t.Error("IsNotFoundError failed for NotFoundError")
	}
	if !strings.Contains(nerr.Error(), "abc123") {
		t.Errorf("NotFoundError %q should include the ID", nerr)
	}

	cerr := NewCommandError("upload", "send", "backend rejected the request", errors.New("boom"))
	if !strings.Contains(cerr.Error(), "upload") {
		t.Errorf("CommandError %q should include the command", cerr)
	}
	if !errors.Is(cerr, errors.Unwrap(cerr)) {
		t.Error("CommandError should unwrap to its cause")
	}
}

// =============================================================================
// TERMINAL HELPERS (terminal.go, helpers.go)
// =============================================================================

func TestWrapText(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	wrapped := WrapText(text, 20)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 20 {
			t.Errorf("line %q exceeds width 20", line)
		}
	}

	// Existing newlines are preserved.
	multi := "line one\nline two"
	if got := WrapText(multi, 80); !strings.Contains(got, "\n") {
		t.Error("WrapText dropped existing newline")
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short) = %q", got)
	}
	got := truncateString("a very long filename that keeps going.pdf", 20)
	if len(got) > 20 {
		t.Errorf("truncateString result %q longer than max", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated %q should end with ellipsis", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 bytes"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// UPLOAD VALIDATION (upload.go)
// =============================================================================

func TestValidateUpload(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "paper.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4 content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateUpload(pdf, 1024*1024); err != nil {
		t.Errorf("valid PDF rejected: %v", err)
	}

	txt := filepath.Join(dir, "notes.txt")
	os.WriteFile(txt, []byte("text"), 0644)
	if err := ValidateUpload(txt, 1024*1024); err == nil {
		t.Error("non-PDF accepted")
	}

	if err := ValidateUpload(filepath.Join(dir, "missing.pdf"), 1024*1024); err == nil {
		t.Error("missing file accepted")
	}

	empty := filepath.Join(dir, "empty.pdf")
	os.WriteFile(empty, nil, 0644)
	if err := ValidateUpload(empty, 1024*1024); err == nil {
		t.Error("empty file accepted")
	}

	if err := ValidateUpload(pdf, 4); err == nil {
		t.Error("oversized file accepted")
	}

	if err := ValidateUpload(dir, 1024); err == nil {
		t.Error("directory accepted")
	}
}
