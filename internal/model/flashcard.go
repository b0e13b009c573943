// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the client-side data structures for documents,
// chat messages, notes, and flashcards.
package model

// =============================================================================
// FLASHCARD TYPE
// =============================================================================

// Flashcard is one generated question/answer pair for a document.
// Cards are generated in a batch and individually deletable.
type Flashcard struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// =============================================================================
// DECK CURSOR
// =============================================================================

// Deck tracks navigation through an ordered set of flashcards: a current
// index and a question/answer flip state. This is transient UI state and is
// never persisted.
type Deck struct {
	index   int
	flipped bool
	size    int
}

// NewDeck creates a deck cursor over the given number of cards.
func NewDeck(size int) Deck {
	return Deck{size: size}
}

// Index returns the current card index.
func (d *Deck) Index() int {
	return d.index
}

// Size returns the number of cards in the deck.
func (d *Deck) Size() int {
	return d.size
}

// Flipped returns true when the answer side is showing.
func (d *Deck) Flipped() bool {
	return d.flipped
}

// Flip toggles between question and answer.
func (d *Deck) Flip() {
	d.flipped = !d.flipped
}

// Next advances to the next card, wrapping at the end. The new card always
// shows its question side.
func (d *Deck) Next() {
	if d.size == 0 {
		return
	}
	d.index = (d.index + 1) % d.size
	d.flipped = false
}

// Prev moves to the previous card, wrapping at the start. The new card
// always shows its question side.
func (d *Deck) Prev() {
	if d.size == 0 {
		return
	}
	d.index = (d.index - 1 + d.size) % d.size
	d.flipped = false
}

// Resize adjusts the deck size after a card is removed or the set is
// regenerated, clamping the cursor into range.
func (d *Deck) Resize(size int) {
	d.size = size
	if size == 0 {
		d.index = 0
		d.flipped = false
		return
	}
	if d.index >= size {
		d.index = size - 1
	}
	d.flipped = false
}
