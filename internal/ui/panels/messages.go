// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea messages for panel fetch results.
//
// Every result message carries the document ID it was requested for. A
// panel applies a result to the session store only when that ID still
// matches the active document; results for a document the user has
// switched away from are dropped.
package panels

import (
	"github.com/docentlabs/docent/internal/model"
)

// =============================================================================
// DOCUMENT MESSAGES
// =============================================================================

// DocumentsLoadedMsg delivers the backend's document list.
type DocumentsLoadedMsg struct {
	Documents []*model.Document
	Err       error
}

// DocumentUploadedMsg delivers the result of a PDF upload.
type DocumentUploadedMsg struct {
	Document *model.Document
	Filename string
	Err      error
}

// DocumentDeletedMsg delivers the result of a document deletion.
type DocumentDeletedMsg struct {
	DocumentID string
	Err        error
}

// SelectDocumentMsg asks the app root to make a document active. The root
// performs the store reset sequence and panel refreshes in one Update step.
type SelectDocumentMsg struct {
	Document *model.Document
}

// =============================================================================
// FEATURE MESSAGES
// =============================================================================

// SummaryMsg delivers a generated summary.
type SummaryMsg struct {
	DocumentID string
	TargetLen  int
	Text       string
	Err        error
}

// KeywordsMsg delivers extracted keywords.
type KeywordsMsg struct {
	DocumentID string
	Keywords   []string
	Err        error
}

// FlashcardsMsg delivers a flashcard set, either freshly generated or
// fetched from the backend's persisted state.
type FlashcardsMsg struct {
	DocumentID string
	Cards      []*model.Flashcard
	Generated  bool
	Err        error
}

// FlashcardDeletedMsg delivers the result of deleting one card.
type FlashcardDeletedMsg struct {
	DocumentID string
	CardID     string
	Err        error
}

// NotesLoadedMsg delivers the document's persisted notes.
type NotesLoadedMsg struct {
	DocumentID string
	Notes      []*model.Note
	Err        error
}

// NoteSavedMsg delivers the result of a note create or update.
type NoteSavedMsg struct {
	DocumentID string
	Note       *model.Note
	Created    bool
	Err        error
}

// NoteDeletedMsg delivers the result of a note deletion.
type NoteDeletedMsg struct {
	DocumentID string
	NoteID     string
	Err        error
}

// =============================================================================
// ERROR MESSAGE
// =============================================================================

// ErrorMsg surfaces a panel failure. The app root renders it as a toast.
type ErrorMsg struct {
	Title   string
	Message string
}
