// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the client-side data structures for documents,
// chat messages, notes, and flashcards.
package model

import "time"

// =============================================================================
// NOTE TYPE
// =============================================================================

// Note is a user-authored note attached to a document. The server is the
// source of truth; the client cache is a denormalized mirror.
type Note struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Preview returns a truncated single-line preview of the note content.
func (n *Note) Preview(maxLen int) string {
	content := n.Content
	for i, r := range content {
		if r == '\n' {
			content = content[:i]
			break
		}
	}
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen-3]) + "..."
}
