// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// flashcards.go - Flashcard deck panel: generate, navigate, flip, delete.
//
// The card set is session store state; the deck cursor and flip state are
// transient UI state owned by this panel and reset on document switch.
package panels

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/components"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// Flashcards is the flashcard deck panel.
type Flashcards struct {
	theme    *styles.Theme
	store    *session.Store
	commands *Commands

	width  int
	height int

	deck          model.Deck
	confirmDelete bool
}

// NewFlashcards creates the flashcards panel.
func NewFlashcards(theme *styles.Theme, store *session.Store, commands *Commands) Flashcards {
	return Flashcards{
		theme:    theme,
		store:    store,
		commands: commands,
		deck:     model.NewDeck(0),
	}
}

// SetSize updates the panel dimensions.
func (p *Flashcards) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Refresh fetches the document's persisted cards and resets the deck
// cursor. Called on panel activation and document switch.
func (p *Flashcards) Refresh() tea.Cmd {
	p.deck = model.NewDeck(len(p.store.Flashcards()))
	p.confirmDelete = false

	docID := p.store.CurrentDocumentID()
	if docID == "" {
		return nil
	}
	p.store.SetLoadingFlashcards(true)
	return p.commands.LoadFlashcards(docID)
}

// Update handles messages for the flashcards panel.
func (p Flashcards) Update(msg tea.Msg) (Flashcards, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case FlashcardsMsg:
		if msg.DocumentID != p.store.CurrentDocumentID() {
			return p, nil
		}
		p.store.SetLoadingFlashcards(false)
		if msg.Err != nil {
			// A missing persisted set is an empty deck, not a failure.
			if !msg.Generated {
				return p, nil
			}
			return p, errorCmd("Flashcard generation failed", msg.Err)
		}
		p.store.SetFlashcards(msg.Cards)
		p.deck = model.NewDeck(len(msg.Cards))
		return p, nil

	case FlashcardDeletedMsg:
		if msg.Err != nil {
			return p, errorCmd("Delete failed", msg.Err)
		}
		if msg.DocumentID != p.store.CurrentDocumentID() {
			return p, nil
		}
		p.store.RemoveFlashcard(msg.CardID)
		p.deck.Resize(len(p.store.Flashcards()))
		return p, nil
	}
	return p, nil
}

func (p Flashcards) handleKey(msg tea.KeyMsg) (Flashcards, tea.Cmd) {
	keyStr := msg.String()

	if p.confirmDelete {
		p.confirmDelete = false
		if keyStr == "y" || keyStr == "Y" {
			if card := p.current(); card != nil {
				return p, p.commands.DeleteFlashcard(p.store.CurrentDocumentID(), card.ID)
			}
		}
		return p, nil
	}

	switch keyStr {
	case "g":
		if p.store.IsLoading().Flashcards {
			return p, nil
		}
		docID := p.store.CurrentDocumentID()
		if docID == "" {
			return p, nil
		}
		p.store.SetLoadingFlashcards(true)
		return p, p.commands.GenerateFlashcards(docID)

	case "left", "h":
		p.deck.Prev()
	case "right", "l":
		p.deck.Next()
	case "enter", " ":
		p.deck.Flip()
	case "d":
		if p.current() != nil {
			p.confirmDelete = true
		}
	}
	return p, nil
}

func (p *Flashcards) current() *model.Flashcard {
	cards := p.store.Flashcards()
	if len(cards) == 0 || p.deck.Index() >= len(cards) {
		return nil
	}
	return cards[p.deck.Index()]
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the flashcards panel.
func (p Flashcards) View() string {
	title := p.theme.PanelTitle.Render("Flashcards")

	var body string
	switch {
	case p.store.IsLoading().Flashcards:
		body = p.theme.PanelLoading.Render("Generating flashcards...")
	case len(p.store.Flashcards()) == 0:
		body = p.theme.PanelEmpty.Render("No flashcards yet. Press g to generate a deck.")
	default:
		body = p.renderCard()
	}

	var footer string
	if p.confirmDelete {
		footer = p.theme.ErrorTitle.Render("Delete this card? (y/n)")
	} else {
		footer = p.theme.StatusBar.Render("left/right navigate | enter flip | d delete | g regenerate")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}

// renderCard renders the current card face and deck position.
func (p Flashcards) renderCard() string {
	card := p.current()
	if card == nil {
		return p.theme.PanelEmpty.Render("No flashcards.")
	}

	cardWidth := p.width - 8
	if cardWidth < 24 {
		cardWidth = 24
	}

	var face string
	var hint string
	if p.deck.Flipped() {
		face = p.theme.CardAnswer.Width(cardWidth).Render(card.Answer)
		hint = p.theme.CardHint.Render("answer")
	} else {
		face = p.theme.CardQuestion.Width(cardWidth).Render(card.Question)
		hint = p.theme.CardHint.Render("question")
	}

	counter := p.theme.CardCounter.Render(
		components.FormatDeckPosition(p.deck.Index()+1, p.deck.Size()))

	return lipgloss.JoinVertical(lipgloss.Left, face, hint+" "+counter)
}
