// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panels

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// testEnv builds a theme, a store with one active document, and a
// command factory. No command returned by a panel is ever executed, so
// nothing touches the network.
func testEnv(t *testing.T) (*styles.Theme, *session.Store, *Commands) {
	t.Helper()
	theme := styles.NewTheme()
	store := session.NewStore()
	doc := &model.Document{ID: "doc-1", Filename: "paper.pdf", PageCount: 12}
	store.AddDocument(doc)
	store.SetCurrentDocument(doc)
	return theme, store, NewCommands(api.NewClient())
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// DOCUMENTS PANEL
// =============================================================================

func TestDocumentsLoadedPopulatesStore(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewDocuments(theme, store, cmds)

	docs := []*model.Document{
		{ID: "doc-1", Filename: "paper.pdf"},
		{ID: "doc-2", Filename: "thesis.pdf"},
	}
	p, _ = p.Update(DocumentsLoadedMsg{Documents: docs})

	if len(store.Documents()) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(store.Documents()))
	}
}

func TestDocumentsEnterSelectsUnderCursor(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewDocuments(theme, store, cmds)
	store.SetDocuments([]*model.Document{
		{ID: "doc-1", Filename: "paper.pdf"},
		{ID: "doc-2", Filename: "thesis.pdf"},
	})

	p, _ = p.Update(keyPress("j"))
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a select command")
	}
	msg, ok := cmd().(SelectDocumentMsg)
	if !ok {
		t.Fatalf("expected SelectDocumentMsg, got %T", cmd())
	}
	if msg.Document.ID != "doc-2" {
		t.Errorf("expected doc-2 selected, got %s", msg.Document.ID)
	}
}

func TestDocumentUploadActivatesNewDocument(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewDocuments(theme, store, cmds)
	store.SetUploading(true)

	uploaded := &model.Document{ID: "doc-9", Filename: "new.pdf"}
	p, cmd := p.Update(DocumentUploadedMsg{Document: uploaded, Filename: "new.pdf"})

	if store.IsLoading().Uploading {
		t.Error("uploading flag should clear")
	}
	if cmd == nil {
		t.Fatal("expected a select command after upload")
	}
	msg, ok := cmd().(SelectDocumentMsg)
	if !ok {
		t.Fatalf("expected SelectDocumentMsg, got %T", cmd())
	}
	if msg.Document.ID != "doc-9" {
		t.Errorf("expected uploaded document selected, got %s", msg.Document.ID)
	}
}

func TestDocumentDeleteRequiresConfirmation(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewDocuments(theme, store, cmds)
	store.SetDocuments([]*model.Document{{ID: "doc-1", Filename: "paper.pdf"}})

	// "d" alone must not delete.
	p, cmd := p.Update(keyPress("d"))
	if cmd != nil {
		t.Fatal("delete must wait for confirmation")
	}
	// "n" cancels.
	p, cmd = p.Update(keyPress("n"))
	if cmd != nil {
		t.Fatal("cancelled delete must not produce a command")
	}
	// "d" then "y" deletes.
	p, _ = p.Update(keyPress("d"))
	_, cmd = p.Update(keyPress("y"))
	if cmd == nil {
		t.Fatal("confirmed delete should produce a command")
	}
}

// =============================================================================
// SUMMARY PANEL
// =============================================================================

func TestSummaryResultStoredForCurrentDocument(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewSummary(theme, store, cmds)
	p.SetSize(80, 24)
	store.SetLoadingSummary(true)

	p, _ = p.Update(SummaryMsg{DocumentID: "doc-1", TargetLen: 500, Text: "A short summary."})

	if store.IsLoading().Summary {
		t.Error("loading flag should clear")
	}
	sum := store.Summary()
	if sum == nil || sum.Text != "A short summary." {
		t.Fatalf("summary not stored: %+v", sum)
	}
}

func TestStaleSummaryDropped(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewSummary(theme, store, cmds)
	p.SetSize(80, 24)

	p, _ = p.Update(SummaryMsg{DocumentID: "doc-old", Text: "stale"})

	if store.Summary() != nil {
		t.Error("summary for another document must be dropped")
	}
}

func TestSummaryGenerateGuardedWhileLoading(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewSummary(theme, store, cmds)
	p.SetSize(80, 24)
	store.SetLoadingSummary(true)

	_, cmd := p.Update(keyPress("g"))
	if cmd != nil {
		t.Error("generate must be ignored while a request is in flight")
	}
}

// =============================================================================
// KEYWORDS PANEL
// =============================================================================

func TestKeywordsResultStored(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewKeywords(theme, store, cmds)
	p.SetSize(80, 24)
	store.SetLoadingKeywords(true)

	p, _ = p.Update(KeywordsMsg{DocumentID: "doc-1", Keywords: []string{"neural networks", "attention"}})

	ks := store.Keywords()
	if ks == nil || len(ks.Keywords) != 2 {
		t.Fatalf("keywords not stored: %+v", ks)
	}
	// Store keeps the backend casing; display-only title casing happens
	// in the view.
	if ks.Keywords[0] != "neural networks" {
		t.Errorf("keyword casing altered in store: %q", ks.Keywords[0])
	}
}

func TestStaleKeywordsDropped(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewKeywords(theme, store, cmds)

	p, _ = p.Update(KeywordsMsg{DocumentID: "doc-old", Keywords: []string{"stale"}})

	if store.Keywords() != nil {
		t.Error("keywords for another document must be dropped")
	}
}

func TestKeywordChipsTitleCased(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewKeywords(theme, store, cmds)
	p.SetSize(80, 24)
	store.SetKeywords(&model.KeywordSet{DocumentID: "doc-1", Keywords: []string{"neural networks"}})

	view := p.View()
	if !strings.Contains(view, "Neural Networks") {
		t.Errorf("expected title-cased chip in view:\n%s", view)
	}
}

// =============================================================================
// FLASHCARDS PANEL
// =============================================================================

func testCards() []*model.Flashcard {
	return []*model.Flashcard{
		{ID: "c1", DocumentID: "doc-1", Question: "What is attention?", Answer: "A weighting mechanism."},
		{ID: "c2", DocumentID: "doc-1", Question: "What is a token?", Answer: "A unit of text."},
	}
}

func TestFlashcardsResultResetsDeck(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewFlashcards(theme, store, cmds)
	store.SetLoadingFlashcards(true)

	p, _ = p.Update(FlashcardsMsg{DocumentID: "doc-1", Cards: testCards(), Generated: true})

	if len(store.Flashcards()) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(store.Flashcards()))
	}
	if p.deck.Index() != 0 || p.deck.Flipped() {
		t.Error("deck should start at the first card, question side")
	}
}

func TestFlashcardLoadErrorIsSilent(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewFlashcards(theme, store, cmds)
	store.SetLoadingFlashcards(true)

	_, cmd := p.Update(FlashcardsMsg{DocumentID: "doc-1", Generated: false, Err: errors.New("404")})

	if cmd != nil {
		t.Error("a missing persisted set is an empty deck, not an error toast")
	}
	if store.IsLoading().Flashcards {
		t.Error("loading flag should clear")
	}
}

func TestFlashcardGenerateErrorSurfaces(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewFlashcards(theme, store, cmds)

	_, cmd := p.Update(FlashcardsMsg{DocumentID: "doc-1", Generated: true, Err: errors.New("model overloaded")})

	if cmd == nil {
		t.Fatal("generation failures must surface")
	}
	if _, ok := cmd().(ErrorMsg); !ok {
		t.Fatalf("expected ErrorMsg, got %T", cmd())
	}
}

func TestFlashcardNavigationAndFlip(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewFlashcards(theme, store, cmds)
	p, _ = p.Update(FlashcardsMsg{DocumentID: "doc-1", Cards: testCards(), Generated: true})

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.deck.Flipped() {
		t.Error("enter should flip the card")
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRight})
	if p.deck.Index() != 1 {
		t.Errorf("expected index 1, got %d", p.deck.Index())
	}
	if p.deck.Flipped() {
		t.Error("advancing should show the question side")
	}
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if p.deck.Index() != 0 {
		t.Errorf("expected index 0, got %d", p.deck.Index())
	}
}

func TestFlashcardDeleteShrinksDeck(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewFlashcards(theme, store, cmds)
	p, _ = p.Update(FlashcardsMsg{DocumentID: "doc-1", Cards: testCards(), Generated: true})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRight})

	p, _ = p.Update(FlashcardDeletedMsg{DocumentID: "doc-1", CardID: "c2"})

	if len(store.Flashcards()) != 1 {
		t.Fatalf("expected 1 card, got %d", len(store.Flashcards()))
	}
	if p.deck.Index() != 0 {
		t.Errorf("deck index should clamp to remaining cards, got %d", p.deck.Index())
	}
}

// =============================================================================
// NOTES PANEL
// =============================================================================

func TestNotesLoadedForCurrentDocument(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewNotes(theme, store, cmds)

	notes := []*model.Note{
		{ID: "n1", DocumentID: "doc-1", Title: "Key points", Content: "See section 3."},
	}
	p, _ = p.Update(NotesLoadedMsg{DocumentID: "doc-1", Notes: notes})

	if len(store.Notes()) != 1 {
		t.Fatalf("expected 1 note, got %d", len(store.Notes()))
	}
}

func TestStaleNotesDropped(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewNotes(theme, store, cmds)

	p, _ = p.Update(NotesLoadedMsg{DocumentID: "doc-old", Notes: []*model.Note{{ID: "n1"}}})

	if len(store.Notes()) != 0 {
		t.Error("notes for another document must be dropped")
	}
}

func TestNoteEditorCreateFlow(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewNotes(theme, store, cmds)
	p.SetSize(80, 24)

	p, _ = p.Update(keyPress("n"))
	if p.mode != notesEditTitle {
		t.Fatal("n should open the editor on the title field")
	}

	p.titleInput.SetValue("Reading notes")
	p.content.SetValue("Chapter 1 covers the basics.")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if p.mode != notesBrowse {
		t.Error("save should return to browse mode")
	}
	if cmd == nil {
		t.Fatal("save should produce a create command")
	}
}

func TestNoteEditorEscCancels(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewNotes(theme, store, cmds)
	p.SetSize(80, 24)

	p, _ = p.Update(keyPress("n"))
	p.titleInput.SetValue("Discarded")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if p.mode != notesBrowse {
		t.Error("esc should return to browse mode")
	}
	if cmd != nil {
		t.Error("cancel must not save")
	}
}

func TestNoteSaveEmptyIgnored(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewNotes(theme, store, cmds)

	p, _ = p.Update(keyPress("n"))
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if cmd != nil {
		t.Error("saving an empty note should be a no-op")
	}
	if p.mode != notesEditTitle {
		t.Error("empty save should stay in the editor")
	}
}

func TestNoteSavedAppliesToStore(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewNotes(theme, store, cmds)

	note := &model.Note{ID: "n1", DocumentID: "doc-1", Title: "New", Content: "body"}
	p, _ = p.Update(NoteSavedMsg{DocumentID: "doc-1", Note: note, Created: true})
	if len(store.Notes()) != 1 {
		t.Fatalf("created note not stored")
	}

	updated := &model.Note{ID: "n1", DocumentID: "doc-1", Title: "Renamed", Content: "body"}
	p, _ = p.Update(NoteSavedMsg{DocumentID: "doc-1", Note: updated, Created: false})
	if store.Notes()[0].Title != "Renamed" {
		t.Errorf("update not applied, title = %q", store.Notes()[0].Title)
	}
}

func TestNoteDeleteRemovesFromStore(t *testing.T) {
	theme, store, cmds := testEnv(t)
	p := NewNotes(theme, store, cmds)
	store.SetNotes([]*model.Note{{ID: "n1", DocumentID: "doc-1", Title: "Gone"}})

	p, _ = p.Update(keyPress("d"))
	if p.mode != notesConfirmDelete {
		t.Fatal("d should ask for confirmation")
	}
	p, cmd := p.Update(keyPress("y"))
	if cmd == nil {
		t.Fatal("confirmed delete should produce a command")
	}

	p, _ = p.Update(NoteDeletedMsg{DocumentID: "doc-1", NoteID: "n1"})
	if len(store.Notes()) != 0 {
		t.Error("note should be removed from the store")
	}
}
