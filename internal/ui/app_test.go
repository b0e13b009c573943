// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/chat"
	"github.com/docentlabs/docent/internal/ui/panels"
	"github.com/docentlabs/docent/internal/ui/styles"
)

func newTestApp(t *testing.T) (App, *session.Store) {
	t.Helper()
	store := session.NewStore()
	client := api.NewClient()
	controller := chat.NewController(store, client, func(chat.StreamRequest) {})
	app := NewApp(styles.NewTheme(), store, client, controller)

	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App), store
}

func TestAppStartsOnDocumentsView(t *testing.T) {
	app, _ := newTestApp(t)
	if app.active != ViewDocuments {
		t.Errorf("expected documents view on start, got %v", app.active)
	}
}

func TestTabCyclesViews(t *testing.T) {
	app, _ := newTestApp(t)
	start := app.active

	for i := 0; i < int(viewCount); i++ {
		m, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
		app = m.(App)
	}
	if app.active != start {
		t.Errorf("a full tab cycle should return to the start view, got %v", app.active)
	}

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	app = m.(App)
	if app.active != start-1+viewCount {
		t.Errorf("shift+tab should move backward, got %v", app.active)
	}
}

func TestSelectDocumentResetsPerDocumentState(t *testing.T) {
	app, store := newTestApp(t)

	old := &model.Document{ID: "doc-1", Filename: "old.pdf"}
	store.AddDocument(old)
	store.SetCurrentDocument(old)
	store.SetSummary(&model.Summary{DocumentID: "doc-1", Text: "old summary"})
	store.AddMessage(model.NewUserMessage("question about old"))

	next := &model.Document{ID: "doc-2", Filename: "new.pdf"}
	store.AddDocument(next)

	m, _ := app.Update(panels.SelectDocumentMsg{Document: next})
	app = m.(App)

	if store.CurrentDocumentID() != "doc-2" {
		t.Fatalf("current document = %s", store.CurrentDocumentID())
	}
	if store.Summary() != nil {
		t.Error("summary should reset on document switch")
	}
	if len(store.Messages()) != 0 {
		t.Error("chat history should reset on document switch")
	}
	if app.active != ViewChat {
		t.Error("selecting a document should land on the chat view")
	}
}

func TestSelectSameDocumentKeepsState(t *testing.T) {
	app, store := newTestApp(t)

	doc := &model.Document{ID: "doc-1", Filename: "paper.pdf"}
	store.AddDocument(doc)
	store.SetCurrentDocument(doc)
	store.AddMessage(model.NewUserMessage("hello"))

	m, _ := app.Update(panels.SelectDocumentMsg{Document: doc})
	app = m.(App)

	if len(store.Messages()) != 1 {
		t.Error("re-selecting the active document must not reset the chat")
	}
	if app.active != ViewChat {
		t.Error("re-selecting should still switch to the chat view")
	}
}

func TestDeleteActiveDocumentResetsPerDocumentState(t *testing.T) {
	app, store := newTestApp(t)

	doc := &model.Document{ID: "doc-1", Filename: "paper.pdf"}
	store.AddDocument(doc)
	store.SetCurrentDocument(doc)
	store.AddMessage(model.NewUserMessage("question"))
	store.SetSummary(&model.Summary{DocumentID: "doc-1", Text: "stale summary"})
	store.SetNotes([]*model.Note{{ID: "n1", DocumentID: "doc-1", Title: "a", Content: "b"}})

	m, _ := app.Update(panels.DocumentDeletedMsg{DocumentID: "doc-1"})
	app = m.(App)

	if store.CurrentDocument() != nil {
		t.Fatalf("deleted document still active: %v", store.CurrentDocument())
	}
	if got := store.Messages(); len(got) != 0 {
		t.Errorf("chat history should clear when the active document is deleted, got %d", len(got))
	}
	if store.Summary() != nil {
		t.Errorf("summary should clear when the active document is deleted, got %q", store.Summary().Text)
	}
	if got := store.Notes(); len(got) != 0 {
		t.Errorf("notes should clear when the active document is deleted, got %d", len(got))
	}
	if app.header.DocumentName != "" {
		t.Errorf("header still shows %q after deleting the active document", app.header.DocumentName)
	}
}

func TestDeleteInactiveDocumentKeepsState(t *testing.T) {
	app, store := newTestApp(t)

	active := &model.Document{ID: "doc-1", Filename: "active.pdf"}
	other := &model.Document{ID: "doc-2", Filename: "other.pdf"}
	store.AddDocument(active)
	store.AddDocument(other)
	store.SetCurrentDocument(active)
	store.AddMessage(model.NewUserMessage("keep me"))

	m, _ := app.Update(panels.DocumentDeletedMsg{DocumentID: "doc-2"})
	_ = m.(App)

	if store.CurrentDocumentID() != "doc-1" {
		t.Fatalf("active document changed: %s", store.CurrentDocumentID())
	}
	if len(store.Messages()) != 1 {
		t.Error("deleting another document must not touch the chat history")
	}
}

func TestPanelErrorBecomesToast(t *testing.T) {
	app, _ := newTestApp(t)

	m, _ := app.Update(panels.ErrorMsg{Title: "Upload failed", Message: "file too large"})
	app = m.(App)

	if !app.toasts.HasToasts() {
		t.Fatal("panel errors should surface as toasts")
	}
	view := app.View()
	if !strings.Contains(view, "file too large") {
		t.Error("toast message should appear in the rendered view")
	}
}

func TestHealthResultUpdatesStatusBar(t *testing.T) {
	app, _ := newTestApp(t)

	m, _ := app.Update(HealthMsg{Connected: true})
	app = m.(App)
	if !app.statusBar.Connected {
		t.Error("status bar should show connected")
	}

	m, _ = app.Update(HealthMsg{Connected: false})
	app = m.(App)
	if app.statusBar.Connected {
		t.Error("status bar should show disconnected")
	}
}
