// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes document study material to local files.
//
// An export is a one-way snapshot: the backend remains the source of
// truth and nothing written here is ever read back by docent. Bundles
// collect whatever the caller wants on disk (chat transcript, summary,
// keywords, notes, flashcards) and each Exporter renders the populated
// sections in its own format.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/util"
)

// === BUNDLE ===

// Bundle is the unit of export: one document plus the material the
// caller selected. Nil or empty sections are skipped by every
// exporter, so a summary-only export and a full export go through the
// same path.
type Bundle struct {
	// Kind names what this bundle contains ("chat", "summary",
	// "notes", "flashcards", "all"). Used in the output filename.
	Kind string

	Document   *model.Document
	Summary    *model.Summary
	Keywords   *model.KeywordSet
	Notes      []*model.Note
	Flashcards []*model.Flashcard
	Transcript []*model.Message

	ExportedAt time.Time
}

// IsEmpty reports whether the bundle has no exportable content.
func (b *Bundle) IsEmpty() bool {
	return (b.Summary == nil || b.Summary.Text == "") &&
		(b.Keywords == nil || len(b.Keywords.Keywords) == 0) &&
		len(b.Notes) == 0 &&
		len(b.Flashcards) == 0 &&
		len(b.Transcript) == 0
}

// title returns a human heading for the bundle.
func (b *Bundle) title() string {
	if b.Document != nil && b.Document.Filename != "" {
		return b.Document.Filename
	}
	return "Untitled Document"
}

// === EXPORTER ===

// Exporter renders a bundle into a specific output format.
type Exporter interface {
	// Export renders the bundle to bytes.
	Export(b *Bundle) ([]byte, error)

	// FileExtension returns the extension without the dot (e.g. "md").
	FileExtension() string

	// MimeType returns the MIME type of the output.
	MimeType() string
}

// Options controls export behavior shared across formats.
type Options struct {
	// OutputDir is where files are written. Empty means the current
	// working directory.
	OutputDir string

	// IncludeMetadata adds document details (size, pages, upload time)
	// to the output.
	IncludeMetadata bool

	// Theme selects the HTML color scheme ("light" or "dark").
	Theme string
}

// DefaultOptions returns export options with sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
		Theme:           "dark",
	}
}

// NewExporter returns the exporter for a format name. Supported
// formats are "markdown" (alias "md"), "html", and "json".
func NewExporter(format string, opts *Options) (Exporter, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch strings.ToLower(format) {
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "html":
		return NewHTMLExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use markdown, html, or json)", format)
	}
}

// === FILE OUTPUT ===

// ExportToFile renders the bundle and writes it to a timestamped file
// in opts.OutputDir, returning the path written.
func ExportToFile(b *Bundle, format string, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if b.IsEmpty() {
		return "", fmt.Errorf("nothing to export")
	}
	if b.ExportedAt.IsZero() {
		b.ExportedAt = time.Now()
	}

	exporter, err := NewExporter(format, opts)
	if err != nil {
		return "", err
	}

	data, err := exporter.Export(b)
	if err != nil {
		return "", fmt.Errorf("rendering export: %w", err)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, exportFilename(b, exporter.FileExtension()))
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}
	return path, nil
}

// exportFilename builds "<docname>-<kind>-<timestamp>.<ext>" from the
// bundle. The document name is sanitized so the result is a safe
// filename on every platform.
func exportFilename(b *Bundle, ext string) string {
	base := "document"
	if b.Document != nil && b.Document.Filename != "" {
		base = strings.TrimSuffix(b.Document.Filename, filepath.Ext(b.Document.Filename))
	}
	base = sanitizeFilename(base)

	kind := b.Kind
	if kind == "" {
		kind = "export"
	}

	stamp := b.ExportedAt.Format("20060102-150405")
	return fmt.Sprintf("%s-%s-%s.%s", base, kind, stamp, ext)
}

// sanitizeFilename replaces characters that are unsafe in filenames.
// SECURITY: path separators are stripped so a hostile document name
// cannot escape the output directory.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
		"\x00", "",
	)
	name = replacer.Replace(name)
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "document"
	}
	if len(name) > 80 {
		name = name[:80]
	}
	return name
}

// formatTimestamp renders a time for human-readable output.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
