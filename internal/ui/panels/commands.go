// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - Gateway commands shared by the feature panels.
//
// Each command runs one backend call off the Update loop and reports back
// with a result message. Commands never touch the session store; the
// owning panel applies results after checking they are still current.
package panels

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/model"
)

// Generation defaults, overridable from config through SetDefaults.
const (
	DefaultSummaryLength  = 500
	DefaultKeywordCount   = 15
	DefaultFlashcardCount = 10
)

// Commands issues Gateway calls for the panels.
type Commands struct {
	client *api.Client

	summaryLength  int
	keywordCount   int
	flashcardCount int
}

// NewCommands creates a command set bound to an API client.
func NewCommands(client *api.Client) *Commands {
	return &Commands{
		client:         client,
		summaryLength:  DefaultSummaryLength,
		keywordCount:   DefaultKeywordCount,
		flashcardCount: DefaultFlashcardCount,
	}
}

// SetDefaults overrides the generation parameters. Zero values keep the
// built-in defaults.
func (c *Commands) SetDefaults(summaryLength, keywordCount, flashcardCount int) {
	if summaryLength > 0 {
		c.summaryLength = summaryLength
	}
	if keywordCount > 0 {
		c.keywordCount = keywordCount
	}
	if flashcardCount > 0 {
		c.flashcardCount = flashcardCount
	}
}

// =============================================================================
// DOCUMENT COMMANDS
// =============================================================================

// LoadDocuments fetches the backend's document list.
func (c *Commands) LoadDocuments() tea.Cmd {
	client := c.client
	return func() tea.Msg {
		resp, err := client.ListDocuments(context.Background())
		if err != nil {
			return DocumentsLoadedMsg{Err: err}
		}
		docs := make([]*model.Document, 0, len(resp))
		for i := range resp {
			docs = append(docs, toDocument(&resp[i]))
		}
		return DocumentsLoadedMsg{Documents: docs}
	}
}

// Upload reads a PDF from disk, validates it client-side, and uploads it.
// Validation failures surface without any network call.
func (c *Commands) Upload(path string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		filename := filepath.Base(path)

		data, err := os.ReadFile(path)
		if err != nil {
			return DocumentUploadedMsg{Filename: filename, Err: err}
		}
		if err := api.ValidateUpload(filename, data, client.GetConfig().MaxUploadSize); err != nil {
			return DocumentUploadedMsg{Filename: filename, Err: err}
		}

		resp, err := client.UploadDocument(context.Background(), filename, data)
		if err != nil {
			return DocumentUploadedMsg{Filename: filename, Err: err}
		}
		return DocumentUploadedMsg{Document: toDocument(resp), Filename: filename}
	}
}

// DeleteDocument deletes a document. The backend cascades the document's
// notes and flashcards.
func (c *Commands) DeleteDocument(docID string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		err := client.DeleteDocument(context.Background(), docID)
		return DocumentDeletedMsg{DocumentID: docID, Err: err}
	}
}

// =============================================================================
// FEATURE COMMANDS
// =============================================================================

// GenerateSummary requests a summary at the configured target length.
func (c *Commands) GenerateSummary(docID string) tea.Cmd {
	client := c.client
	length := c.summaryLength
	return func() tea.Msg {
		text, err := client.Summary(context.Background(), docID, length)
		return SummaryMsg{DocumentID: docID, TargetLen: length, Text: text, Err: err}
	}
}

// GenerateKeywords requests keyword extraction.
func (c *Commands) GenerateKeywords(docID string) tea.Cmd {
	client := c.client
	count := c.keywordCount
	return func() tea.Msg {
		keywords, err := client.Keywords(context.Background(), docID, count)
		return KeywordsMsg{DocumentID: docID, Keywords: keywords, Err: err}
	}
}

// GenerateFlashcards requests a fresh batch of cards.
func (c *Commands) GenerateFlashcards(docID string) tea.Cmd {
	client := c.client
	count := c.flashcardCount
	return func() tea.Msg {
		resp, err := client.GenerateFlashcards(context.Background(), docID, count)
		return FlashcardsMsg{DocumentID: docID, Cards: toFlashcards(resp), Generated: true, Err: err}
	}
}

// LoadFlashcards fetches the document's persisted cards.
func (c *Commands) LoadFlashcards(docID string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		resp, err := client.ListFlashcards(context.Background(), docID)
		return FlashcardsMsg{DocumentID: docID, Cards: toFlashcards(resp), Err: err}
	}
}

// DeleteFlashcard deletes one card.
func (c *Commands) DeleteFlashcard(docID, cardID string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		err := client.DeleteFlashcard(context.Background(), cardID)
		return FlashcardDeletedMsg{DocumentID: docID, CardID: cardID, Err: err}
	}
}

// LoadNotes fetches the document's persisted notes.
func (c *Commands) LoadNotes(docID string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		resp, err := client.ListNotes(context.Background(), docID)
		if err != nil {
			return NotesLoadedMsg{DocumentID: docID, Err: err}
		}
		notes := make([]*model.Note, 0, len(resp))
		for i := range resp {
			notes = append(notes, toNote(&resp[i]))
		}
		return NotesLoadedMsg{DocumentID: docID, Notes: notes}
	}
}

// CreateNote creates a note on the document.
func (c *Commands) CreateNote(docID, title, content string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		resp, err := client.CreateNote(context.Background(), docID, title, content)
		if err != nil {
			return NoteSavedMsg{DocumentID: docID, Created: true, Err: err}
		}
		return NoteSavedMsg{DocumentID: docID, Note: toNote(resp), Created: true}
	}
}

// UpdateNote updates an existing note.
func (c *Commands) UpdateNote(docID, noteID, title, content string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		resp, err := client.UpdateNote(context.Background(), noteID, title, content)
		if err != nil {
			return NoteSavedMsg{DocumentID: docID, Err: err}
		}
		return NoteSavedMsg{DocumentID: docID, Note: toNote(resp)}
	}
}

// DeleteNote deletes one note.
func (c *Commands) DeleteNote(docID, noteID string) tea.Cmd {
	client := c.client
	return func() tea.Msg {
		err := client.DeleteNote(context.Background(), noteID)
		return NoteDeletedMsg{DocumentID: docID, NoteID: noteID, Err: err}
	}
}

// errorCmd wraps a failure into an ErrorMsg for the toast layer.
func errorCmd(title string, err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Title: title, Message: api.UserMessage(err)}
	}
}

// =============================================================================
// WIRE CONVERSIONS
// =============================================================================

func toDocument(d *api.DocumentResponse) *model.Document {
	return &model.Document{
		ID:         d.ID,
		Filename:   d.Filename,
		FileSize:   d.FileSize,
		PageCount:  d.PageCount,
		ChunkCount: d.ChunkCount,
		CreatedAt:  d.CreatedTime(),
	}
}

func toFlashcards(resp []api.FlashcardResponse) []*model.Flashcard {
	cards := make([]*model.Flashcard, 0, len(resp))
	for _, f := range resp {
		cards = append(cards, &model.Flashcard{
			ID:         f.ID,
			DocumentID: f.DocumentID,
			Question:   f.Question,
			Answer:     f.Answer,
		})
	}
	return cards
}

func toNote(n *api.NoteResponse) *model.Note {
	return &model.Note{
		ID:         n.ID,
		DocumentID: n.DocumentID,
		Title:      n.Title,
		Content:    n.Content,
		CreatedAt:  parseNoteTime(n.CreatedAt),
		UpdatedAt:  parseNoteTime(n.UpdatedAt),
	}
}

func parseNoteTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
