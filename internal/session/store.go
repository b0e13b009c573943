// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/docentlabs/docent/internal/model"
)

// =============================================================================
// CHANGE NOTIFICATION
// =============================================================================

// Field identifies which part of the store a mutation touched. Listeners use
// it to decide whether to re-render.
type Field int

const (
	FieldDocuments Field = iota
	FieldCurrentDocument
	FieldMessages
	FieldSummary
	FieldKeywords
	FieldFlashcards
	FieldNotes
	FieldSuggestions
	FieldLoading
)

// Listener is notified synchronously after each mutation, before the
// mutating call returns.
type Listener func(changed Field)

// =============================================================================
// SESSION STORE
// =============================================================================

// Store is the single source of truth for all document-scoped UI state.
//
// Mutations are total: they never fail, perform no I/O, and run to
// completion under one lock, so a multi-field update is observed atomically.
// Every mutated slice field is replaced, never modified in place, so
// observers can rely on referential identity for change detection.
//
// At most one document is active at a time. Per-feature derived state
// (messages, summary, keywords, flashcards, notes, suggestions) is always
// scoped to the active document; callers switch documents with
// SetCurrentDocument followed by ResetDocumentState — kept as two explicit
// calls so a caller can deliberately preserve state when that is ever
// wanted.
type Store struct {
	mu sync.Mutex

	// Document set
	documents []*model.Document
	current   *model.Document

	// Per-feature derived state, scoped to the active document
	messages    []*model.Message
	summary     *model.Summary
	keywords    *model.KeywordSet
	flashcards  []*model.Flashcard
	notes       []*model.Note
	suggestions []string

	// Loading flags
	loading Loading

	// Observers
	listeners []Listener
}

// Loading aggregates the per-feature loading flags.
type Loading struct {
	Chat       bool
	Summary    bool
	Keywords   bool
	Flashcards bool
	Uploading  bool
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers a listener. Listeners are invoked synchronously after
// each mutation, in registration order, while the mutation lock is NOT held.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// notify invokes listeners outside the lock.
func (s *Store) notify(changed Field) {
	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(changed)
	}
}

// =============================================================================
// DOCUMENT SET MUTATIONS
// =============================================================================

// SetDocuments replaces the full known document set (used after a server
// list fetch).
func (s *Store) SetDocuments(docs []*model.Document) {
	s.mu.Lock()
	s.documents = append([]*model.Document(nil), docs...)
	s.mu.Unlock()
	s.notify(FieldDocuments)
}

// AddDocument inserts one document into the set.
func (s *Store) AddDocument(doc *model.Document) {
	s.mu.Lock()
	s.documents = append(append([]*model.Document(nil), s.documents...), doc)
	s.mu.Unlock()
	s.notify(FieldDocuments)
}

// RemoveDocument deletes one document from the set by ID. If the removed
// document was active, the active document is cleared as well; the caller
// must separately reset derived state.
func (s *Store) RemoveDocument(id string) {
	s.mu.Lock()
	next := make([]*model.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if d.ID != id {
			next = append(next, d)
		}
	}
	s.documents = next

	evicted := s.current != nil && s.current.ID == id
	if evicted {
		s.current = nil
	}
	s.mu.Unlock()

	s.notify(FieldDocuments)
	if evicted {
		s.notify(FieldCurrentDocument)
	}
}

// SetCurrentDocument sets the active document (nil for none). It does NOT
// clear derived state; see ResetDocumentState.
func (s *Store) SetCurrentDocument(doc *model.Document) {
	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	s.notify(FieldCurrentDocument)
}

// ResetDocumentState clears all per-feature derived state and every loading
// flag. Must be invoked with (before or atomically after) switching the
// active document in the normal flow, so a slow response for the previous
// document can never render into the new one.
func (s *Store) ResetDocumentState() {
	s.mu.Lock()
	s.messages = nil
	s.summary = nil
	s.keywords = nil
	s.flashcards = nil
	s.notes = nil
	s.suggestions = nil
	s.loading = Loading{}
	s.mu.Unlock()

	s.notify(FieldMessages)
	s.notify(FieldSummary)
	s.notify(FieldKeywords)
	s.notify(FieldFlashcards)
	s.notify(FieldNotes)
	s.notify(FieldSuggestions)
	s.notify(FieldLoading)
}

// =============================================================================
// MESSAGE MUTATIONS
// =============================================================================

// AddMessage appends one message to the active document's chat history.
func (s *Store) AddMessage(msg *model.Message) {
	s.mu.Lock()
	s.messages = append(append([]*model.Message(nil), s.messages...), msg)
	s.mu.Unlock()
	s.notify(FieldMessages)
}

// TruncateToLastUser drops trailing messages so the history ends at the most
// recent user message, returning the resulting history. Used by
// regeneration: any assistant reply after the last user turn is removed
// before the truncated history is resubmitted. No-op when the history is
// empty or already ends with a user message.
func (s *Store) TruncateToLastUser() []*model.Message {
	s.mu.Lock()
	lastUser := -1
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == model.RoleUser {
			lastUser = i
			break
		}
	}

	changed := false
	if lastUser >= 0 && lastUser != len(s.messages)-1 {
		s.messages = append([]*model.Message(nil), s.messages[:lastUser+1]...)
		changed = true
	}
	snapshot := append([]*model.Message(nil), s.messages...)
	s.mu.Unlock()

	if changed {
		s.notify(FieldMessages)
	}
	return snapshot
}

// =============================================================================
// FEATURE MUTATIONS
// =============================================================================

// SetSummary replaces the summary for the active document.
func (s *Store) SetSummary(summary *model.Summary) {
	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
	s.notify(FieldSummary)
}

// SetKeywords replaces the keyword set for the active document.
func (s *Store) SetKeywords(keywords *model.KeywordSet) {
	s.mu.Lock()
	s.keywords = keywords
	s.mu.Unlock()
	s.notify(FieldKeywords)
}

// SetFlashcards replaces the flashcard set for the active document.
func (s *Store) SetFlashcards(cards []*model.Flashcard) {
	s.mu.Lock()
	s.flashcards = append([]*model.Flashcard(nil), cards...)
	s.mu.Unlock()
	s.notify(FieldFlashcards)
}

// RemoveFlashcard deletes one flashcard by ID.
func (s *Store) RemoveFlashcard(id string) {
	s.mu.Lock()
	next := make([]*model.Flashcard, 0, len(s.flashcards))
	for _, c := range s.flashcards {
		if c.ID != id {
			next = append(next, c)
		}
	}
	s.flashcards = next
	s.mu.Unlock()
	s.notify(FieldFlashcards)
}

// SetNotes replaces the note set for the active document.
func (s *Store) SetNotes(notes []*model.Note) {
	s.mu.Lock()
	s.notes = append([]*model.Note(nil), notes...)
	s.mu.Unlock()
	s.notify(FieldNotes)
}

// AddNote inserts one note.
func (s *Store) AddNote(note *model.Note) {
	s.mu.Lock()
	s.notes = append(append([]*model.Note(nil), s.notes...), note)
	s.mu.Unlock()
	s.notify(FieldNotes)
}

// UpdateNote replaces a note in place by ID.
func (s *Store) UpdateNote(note *model.Note) {
	s.mu.Lock()
	next := append([]*model.Note(nil), s.notes...)
	for i, n := range next {
		if n.ID == note.ID {
			next[i] = note
			break
		}
	}
	s.notes = next
	s.mu.Unlock()
	s.notify(FieldNotes)
}

// RemoveNote deletes one note by ID.
func (s *Store) RemoveNote(id string) {
	s.mu.Lock()
	next := make([]*model.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.ID != id {
			next = append(next, n)
		}
	}
	s.notes = next
	s.mu.Unlock()
	s.notify(FieldNotes)
}

// SetSuggestions replaces the follow-up suggestion list.
func (s *Store) SetSuggestions(suggestions []string) {
	s.mu.Lock()
	s.suggestions = append([]string(nil), suggestions...)
	s.mu.Unlock()
	s.notify(FieldSuggestions)
}

// ClearSuggestions empties the follow-up suggestion list.
func (s *Store) ClearSuggestions() {
	s.SetSuggestions(nil)
}

// =============================================================================
// LOADING FLAG MUTATIONS
// =============================================================================

// SetLoadingChat sets the chat-turn-in-flight flag.
func (s *Store) SetLoadingChat(v bool) { s.setLoading(func(l *Loading) { l.Chat = v }) }

// SetLoadingSummary sets the summary-request-in-flight flag.
func (s *Store) SetLoadingSummary(v bool) { s.setLoading(func(l *Loading) { l.Summary = v }) }

// SetLoadingKeywords sets the keywords-request-in-flight flag.
func (s *Store) SetLoadingKeywords(v bool) { s.setLoading(func(l *Loading) { l.Keywords = v }) }

// SetLoadingFlashcards sets the flashcards-request-in-flight flag.
func (s *Store) SetLoadingFlashcards(v bool) { s.setLoading(func(l *Loading) { l.Flashcards = v }) }

// SetUploading sets the upload-in-flight flag.
func (s *Store) SetUploading(v bool) { s.setLoading(func(l *Loading) { l.Uploading = v }) }

func (s *Store) setLoading(mutate func(*Loading)) {
	s.mu.Lock()
	mutate(&s.loading)
	s.mu.Unlock()
	s.notify(FieldLoading)
}

// =============================================================================
// SNAPSHOT ACCESSORS
// =============================================================================

// Documents returns the current document set. The returned slice is the
// store's own immutable snapshot; callers must not modify it.
func (s *Store) Documents() []*model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documents
}

// CurrentDocument returns the active document, or nil.
func (s *Store) CurrentDocument() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentDocumentID returns the active document's ID, or "".
func (s *Store) CurrentDocumentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Messages returns the chat history for the active document.
func (s *Store) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages
}

// Summary returns the generated summary, or nil when absent.
func (s *Store) Summary() *model.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Keywords returns the extracted keyword set, or nil when absent.
func (s *Store) Keywords() *model.KeywordSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords
}

// Flashcards returns the flashcard set for the active document.
func (s *Store) Flashcards() []*model.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flashcards
}

// Notes returns the note set for the active document.
func (s *Store) Notes() []*model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

// Suggestions returns the follow-up suggestion list.
func (s *Store) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions
}

// IsLoading returns the aggregated loading flags.
func (s *Store) IsLoading() Loading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ChatHistory converts the current message history to wire format. Streaming
// messages contribute their accumulated content so far.
func (s *Store) ChatHistory() []ChatHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]ChatHistoryEntry, 0, len(s.messages))
	for _, msg := range s.messages {
		content := msg.DisplayContent()
		if content == "" {
			continue
		}
		history = append(history, ChatHistoryEntry{
			Role:    msg.Role.String(),
			Content: content,
		})
	}
	return history
}

// ChatHistoryEntry is one history entry in wire-neutral form. The gateway
// layer converts these to its request type, keeping the store free of
// transport imports.
type ChatHistoryEntry struct {
	Role    string
	Content string
}
