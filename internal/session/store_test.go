// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"

	"github.com/docentlabs/docent/internal/model"
)

func doc(id, name string) *model.Document {
	return &model.Document{ID: id, Filename: name}
}

func TestSetCurrentDocument(t *testing.T) {
	s := NewStore()
	if s.CurrentDocument() != nil {
		t.Fatal("new store should have no active document")
	}

	d := doc("d1", "paper.pdf")
	s.SetCurrentDocument(d)
	if s.CurrentDocument() != d {
		t.Error("active document not set")
	}
	if s.CurrentDocumentID() != "d1" {
		t.Errorf("CurrentDocumentID = %q, want d1", s.CurrentDocumentID())
	}

	s.SetCurrentDocument(nil)
	if s.CurrentDocumentID() != "" {
		t.Error("clearing active document should clear ID")
	}
}

func TestRemoveDocumentEvictsActive(t *testing.T) {
	s := NewStore()
	d1 := doc("d1", "a.pdf")
	d2 := doc("d2", "b.pdf")
	s.SetDocuments([]*model.Document{d1, d2})
	s.SetCurrentDocument(d1)

	s.RemoveDocument("d1")

	if s.CurrentDocument() != nil {
		t.Error("removing the active document must clear the active document")
	}
	docs := s.Documents()
	if len(docs) != 1 || docs[0].ID != "d2" {
		t.Errorf("documents after removal = %v, want [d2]", docs)
	}
}

func TestRemoveDocumentKeepsUnrelatedActive(t *testing.T) {
	s := NewStore()
	d1 := doc("d1", "a.pdf")
	d2 := doc("d2", "b.pdf")
	s.SetDocuments([]*model.Document{d1, d2})
	s.SetCurrentDocument(d2)

	s.RemoveDocument("d1")

	if s.CurrentDocument() != d2 {
		t.Error("removing an inactive document must not change the active document")
	}
}

func TestResetDocumentStateClearsEverything(t *testing.T) {
	s := NewStore()
	s.AddMessage(model.NewUserMessage("hello"))
	s.SetSummary(&model.Summary{Text: "summary", DocumentID: "d1"})
	s.SetKeywords(&model.KeywordSet{Keywords: []string{"alpha"}, DocumentID: "d1"})
	s.SetFlashcards([]*model.Flashcard{{ID: "f1", Question: "q", Answer: "a"}})
	s.SetNotes([]*model.Note{{ID: "n1", Content: "note"}})
	s.SetSuggestions([]string{"follow up?"})
	s.SetLoadingChat(true)
	s.SetLoadingSummary(true)
	s.SetUploading(true)

	s.ResetDocumentState()

	if len(s.Messages()) != 0 {
		t.Error("messages not cleared")
	}
	if s.Summary() != nil {
		t.Error("summary not cleared")
	}
	if s.Keywords() != nil {
		t.Error("keywords not cleared")
	}
	if len(s.Flashcards()) != 0 {
		t.Error("flashcards not cleared")
	}
	if len(s.Notes()) != 0 {
		t.Error("notes not cleared")
	}
	if len(s.Suggestions()) != 0 {
		t.Error("suggestions not cleared")
	}
	if s.IsLoading() != (Loading{}) {
		t.Errorf("loading flags not cleared: %+v", s.IsLoading())
	}
}

func TestResetDoesNotClearDocumentSet(t *testing.T) {
	s := NewStore()
	d := doc("d1", "a.pdf")
	s.SetDocuments([]*model.Document{d})
	s.SetCurrentDocument(d)

	s.ResetDocumentState()

	if len(s.Documents()) != 1 {
		t.Error("document set should survive a per-document reset")
	}
	if s.CurrentDocument() != d {
		t.Error("active document should survive a per-document reset")
	}
}

func TestSliceReplacementIdentity(t *testing.T) {
	s := NewStore()
	s.AddMessage(model.NewUserMessage("one"))
	before := s.Messages()

	s.AddMessage(model.NewUserMessage("two"))
	after := s.Messages()

	if len(before) != 1 {
		t.Fatalf("earlier snapshot mutated: len = %d", len(before))
	}
	if len(after) != 2 {
		t.Fatalf("messages = %d, want 2", len(after))
	}
	if &before[0] == &after[0] {
		t.Error("mutation must replace the backing slice, not append in place")
	}
}

func TestTruncateToLastUser(t *testing.T) {
	s := NewStore()
	s.AddMessage(model.NewUserMessage("question one"))
	a1 := model.NewAssistantMessage()
	a1.AppendFragment("answer one")
	a1.FinalizeStream()
	s.AddMessage(a1)
	s.AddMessage(model.NewUserMessage("question two"))
	a2 := model.NewAssistantMessage()
	a2.AppendFragment("answer two")
	a2.FinalizeStream()
	s.AddMessage(a2)

	history := s.TruncateToLastUser()

	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[len(history)-1].Role != model.RoleUser {
		t.Error("truncated history must end with the user message")
	}
	if len(s.Messages()) != 3 {
		t.Error("store history must reflect the truncation")
	}

	// Idempotent: already ends with a user message.
	again := s.TruncateToLastUser()
	if len(again) != 3 {
		t.Errorf("second truncate length = %d, want 3", len(again))
	}
}

func TestTruncateToLastUserEmptyHistory(t *testing.T) {
	s := NewStore()
	if got := s.TruncateToLastUser(); len(got) != 0 {
		t.Errorf("truncate on empty history = %d messages, want 0", len(got))
	}
}

func TestSynchronousNotification(t *testing.T) {
	s := NewStore()
	var changes []Field
	s.Subscribe(func(changed Field) {
		changes = append(changes, changed)
	})

	s.AddMessage(model.NewUserMessage("hi"))
	if len(changes) != 1 || changes[0] != FieldMessages {
		t.Fatalf("changes after AddMessage = %v, want [FieldMessages]", changes)
	}

	// Listener can re-read the store during notification.
	s.Subscribe(func(changed Field) {
		if changed == FieldNotes && len(s.Notes()) != 1 {
			t.Error("listener must observe the completed mutation")
		}
	})
	s.AddNote(&model.Note{ID: "n1", Content: "note"})
}

func TestRemoveDocumentNotifiesActiveEviction(t *testing.T) {
	s := NewStore()
	d := doc("d1", "a.pdf")
	s.SetDocuments([]*model.Document{d})
	s.SetCurrentDocument(d)

	var sawCurrent bool
	s.Subscribe(func(changed Field) {
		if changed == FieldCurrentDocument {
			sawCurrent = true
		}
	})

	s.RemoveDocument("d1")
	if !sawCurrent {
		t.Error("evicting the active document must notify FieldCurrentDocument")
	}
}

func TestNoteLifecycle(t *testing.T) {
	s := NewStore()
	s.AddNote(&model.Note{ID: "n1", Content: "first"})
	s.AddNote(&model.Note{ID: "n2", Content: "second"})

	s.UpdateNote(&model.Note{ID: "n1", Content: "revised"})
	notes := s.Notes()
	if notes[0].Content != "revised" {
		t.Errorf("note content = %q, want revised", notes[0].Content)
	}
	if notes[1].Content != "second" {
		t.Error("unrelated note must be untouched")
	}

	s.RemoveNote("n1")
	notes = s.Notes()
	if len(notes) != 1 || notes[0].ID != "n2" {
		t.Errorf("notes after removal = %v, want [n2]", notes)
	}
}

func TestRemoveFlashcard(t *testing.T) {
	s := NewStore()
	s.SetFlashcards([]*model.Flashcard{
		{ID: "f1", Question: "q1"},
		{ID: "f2", Question: "q2"},
	})

	s.RemoveFlashcard("f1")
	cards := s.Flashcards()
	if len(cards) != 1 || cards[0].ID != "f2" {
		t.Errorf("flashcards after removal = %v, want [f2]", cards)
	}
}

func TestLoadingFlags(t *testing.T) {
	s := NewStore()
	s.SetLoadingChat(true)
	s.SetLoadingKeywords(true)

	l := s.IsLoading()
	if !l.Chat || !l.Keywords {
		t.Errorf("loading = %+v, want Chat and Keywords set", l)
	}
	if l.Summary || l.Flashcards || l.Uploading {
		t.Errorf("loading = %+v, unrelated flags must stay clear", l)
	}

	s.SetLoadingChat(false)
	if s.IsLoading().Chat {
		t.Error("chat flag not cleared")
	}
}

func TestChatHistorySkipsEmptyMessages(t *testing.T) {
	s := NewStore()
	s.AddMessage(model.NewUserMessage("question"))
	streaming := model.NewAssistantMessage()
	s.AddMessage(streaming)

	history := s.ChatHistory()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1 (empty streaming message skipped)", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "question" {
		t.Errorf("history[0] = %+v", history[0])
	}

	streaming.AppendFragment("partial answer")
	history = s.ChatHistory()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2 once content accumulates", len(history))
	}
	if history[1].Role != "assistant" || history[1].Content != "partial answer" {
		t.Errorf("history[1] = %+v", history[1])
	}
}

func TestClearSuggestions(t *testing.T) {
	s := NewStore()
	s.SetSuggestions([]string{"a", "b"})
	s.ClearSuggestions()
	if len(s.Suggestions()) != 0 {
		t.Error("suggestions not cleared")
	}
}
