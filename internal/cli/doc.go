// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for docent.
//
// # Commands
//
//   - tui: launch the full-screen terminal UI (default)
//   - ask: one-shot question against a document
//   - chat: interactive streaming REPL
//   - upload: upload a PDF to the backend
//   - docs: list and delete documents
//   - status: backend reachability and configuration summary
//   - config: show, get, and set configuration values
//   - export: write a document's summary, notes, and flashcards to a file
//   - watch: watch a directory and auto-upload new PDFs
//   - version, help
//
// # Output Behavior
//
// Colors are disabled automatically when stdout is not a terminal or
// NO_COLOR is set. Markdown rendering of answers happens only on a TTY
// so piped output stays clean.
package cli
