// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the client-side data structures for documents,
// chat messages, notes, and flashcards.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("expected role user, got %s", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("expected content 'hello', got %q", msg.Content)
	}
	if msg.IsStreaming {
		t.Error("user message should not be streaming")
	}
	if msg.ID == "" || !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("expected msg_ prefixed ID, got %q", msg.ID)
	}
}

func TestStreamingAccumulation(t *testing.T) {
	msg := NewAssistantMessage()

	if !msg.IsStreaming {
		t.Fatal("new assistant message should be streaming")
	}
	if !msg.IsEmpty() {
		t.Error("new assistant message should be empty")
	}

	msg.AppendFragment("The answer")
	msg.AppendFragment(" is 42.")

	if got := msg.DisplayContent(); got != "The answer is 42." {
		t.Errorf("expected accumulated content, got %q", got)
	}
	if msg.Content != "" {
		t.Error("Content should be empty until finalized")
	}

	msg.FinalizeStream()

	if msg.IsStreaming {
		t.Error("message should be settled after FinalizeStream")
	}
	if msg.Content != "The answer is 42." {
		t.Errorf("expected finalized content, got %q", msg.Content)
	}

	// Fragments after finalization must be ignored.
	msg.AppendFragment(" extra")
	if msg.Content != "The answer is 42." {
		t.Errorf("settled message was mutated: %q", msg.Content)
	}
}

func TestFinalizeStreamIdempotent(t *testing.T) {
	msg := NewAssistantMessage()
	msg.AppendFragment("once")
	msg.FinalizeStream()
	msg.FinalizeStream()

	if msg.Content != "once" {
		t.Errorf("expected 'once', got %q", msg.Content)
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage("a long question about the document content here")
	preview := msg.Preview(20)
	if len([]rune(preview)) > 20 {
		t.Errorf("preview too long: %q", preview)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("expected ellipsis, got %q", preview)
	}
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestDocumentTitle(t *testing.T) {
	doc := &Document{Filename: "thesis.pdf"}
	if got := doc.Title(50); got != "thesis" {
		t.Errorf("expected 'thesis', got %q", got)
	}

	doc = &Document{Filename: "REPORT.PDF"}
	if got := doc.Title(50); got != "REPORT" {
		t.Errorf("expected 'REPORT', got %q", got)
	}
}

func TestDocumentMetaString(t *testing.T) {
	doc := &Document{FileSize: 2 * 1024 * 1024, PageCount: 3, ChunkCount: 12}
	want := "2.0 MB | 3 pages | 12 chunks"
	if got := doc.MetaString(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// =============================================================================
// DECK TESTS
// =============================================================================

func TestDeckNavigation(t *testing.T) {
	deck := NewDeck(3)

	if deck.Index() != 0 || deck.Flipped() {
		t.Fatal("new deck should start at card 0, question side")
	}

	deck.Flip()
	if !deck.Flipped() {
		t.Error("flip should show answer")
	}

	deck.Next()
	if deck.Index() != 1 {
		t.Errorf("expected index 1, got %d", deck.Index())
	}
	if deck.Flipped() {
		t.Error("navigation must reset to question side")
	}

	deck.Prev()
	deck.Prev()
	if deck.Index() != 2 {
		t.Errorf("expected wrap to index 2, got %d", deck.Index())
	}

	deck.Next()
	if deck.Index() != 0 {
		t.Errorf("expected wrap to index 0, got %d", deck.Index())
	}
}

func TestDeckResize(t *testing.T) {
	deck := NewDeck(5)
	deck.Next()
	deck.Next()
	deck.Next()
	deck.Next() // index 4

	deck.Resize(2)
	if deck.Index() != 1 {
		t.Errorf("expected clamped index 1, got %d", deck.Index())
	}

	deck.Resize(0)
	if deck.Index() != 0 {
		t.Errorf("expected index 0 on empty deck, got %d", deck.Index())
	}

	// Navigation on an empty deck must not panic.
	deck.Next()
	deck.Prev()
}

// =============================================================================
// NOTE TESTS
// =============================================================================

func TestNotePreview(t *testing.T) {
	note := &Note{Content: "first line\nsecond line"}
	if got := note.Preview(50); got != "first line" {
		t.Errorf("expected first line only, got %q", got)
	}

	note = &Note{Content: "a very long single line of note content for preview"}
	if got := note.Preview(10); len([]rune(got)) > 10 {
		t.Errorf("preview too long: %q", got)
	}
}
