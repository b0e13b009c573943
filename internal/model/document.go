// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the client-side data structures for documents,
// chat messages, notes, and flashcards.
package model

import (
	"time"

	"github.com/docentlabs/docent/internal/util"
)

// =============================================================================
// DOCUMENT TYPE
// =============================================================================

// Document is one uploaded PDF and its derived metadata. A Document is
// immutable once created; the server is the source of truth.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	PageCount  int       `json:"page_count"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Title returns the filename without the .pdf extension, truncated for display.
func (d *Document) Title(maxLen int) string {
	name := d.Filename
	if len(name) > 4 && (name[len(name)-4:] == ".pdf" || name[len(name)-4:] == ".PDF") {
		name = name[:len(name)-4]
	}
	return util.TruncateRunes(name, maxLen)
}

// SizeString returns the file size in human-readable form.
func (d *Document) SizeString() string {
	return util.FormatByteSize(d.FileSize)
}

// MetaString returns a one-line metadata summary for list views.
func (d *Document) MetaString() string {
	return d.SizeString() + " | " +
		util.IntToString(d.PageCount) + " pages | " +
		util.IntToString(d.ChunkCount) + " chunks"
}

// =============================================================================
// SUMMARY AND KEYWORDS
// =============================================================================

// Summary is a generated summary of a document, parameterized by the target
// word count that was requested. Regenerating replaces the prior value.
type Summary struct {
	Text       string `json:"text"`
	TargetLen  int    `json:"target_len"`
	DocumentID string `json:"document_id"`
}

// KeywordSet is an ordered sequence of keywords extracted from a document.
// Regenerating replaces the prior value.
type KeywordSet struct {
	Keywords   []string `json:"keywords"`
	DocumentID string   `json:"document_id"`
}
