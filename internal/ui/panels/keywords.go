// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// keywords.go - Keyword extraction panel. Keywords render as a wrapped
// row of chips, title-cased for display only; the store keeps the
// backend's original casing and order.
package panels

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/styles"
)

var keywordCaser = cases.Title(language.English, cases.NoLower)

// Keywords is the keyword extraction panel.
type Keywords struct {
	theme    *styles.Theme
	store    *session.Store
	commands *Commands

	width  int
	height int
}

// NewKeywords creates the keywords panel.
func NewKeywords(theme *styles.Theme, store *session.Store, commands *Commands) Keywords {
	return Keywords{
		theme:    theme,
		store:    store,
		commands: commands,
	}
}

// SetSize updates the panel dimensions.
func (p *Keywords) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles messages for the keywords panel.
func (p Keywords) Update(msg tea.Msg) (Keywords, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "g", "enter":
			if p.store.IsLoading().Keywords {
				return p, nil
			}
			docID := p.store.CurrentDocumentID()
			if docID == "" {
				return p, nil
			}
			p.store.SetLoadingKeywords(true)
			return p, p.commands.GenerateKeywords(docID)
		}

	case KeywordsMsg:
		if msg.DocumentID != p.store.CurrentDocumentID() {
			return p, nil
		}
		p.store.SetLoadingKeywords(false)
		if msg.Err != nil {
			return p, errorCmd("Keyword extraction failed", msg.Err)
		}
		p.store.SetKeywords(&model.KeywordSet{
			Keywords:   msg.Keywords,
			DocumentID: msg.DocumentID,
		})
		return p, nil
	}
	return p, nil
}

// View renders the keywords panel.
func (p Keywords) View() string {
	title := p.theme.PanelTitle.Render("Keywords")

	var body string
	switch {
	case p.store.IsLoading().Keywords:
		body = p.theme.PanelLoading.Render("Extracting keywords...")
	case p.store.Keywords() == nil || len(p.store.Keywords().Keywords) == 0:
		body = p.theme.PanelEmpty.Render("No keywords yet. Press g to extract.")
	default:
		body = p.renderChips()
	}

	footer := p.theme.StatusBar.Render("g regenerate")
	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}

// renderChips lays the keywords out as wrapped chip rows.
func (p Keywords) renderChips() string {
	keywords := p.store.Keywords().Keywords

	maxWidth := p.width - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	var rows []string
	var row []string
	rowWidth := 0

	for _, kw := range keywords {
		chip := p.theme.KeywordChip.Render(keywordCaser.String(kw))
		w := lipgloss.Width(chip) + 1
		if rowWidth+w > maxWidth && len(row) > 0 {
			rows = append(rows, strings.Join(row, " "))
			row = nil
			rowWidth = 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}

	return strings.Join(rows, "\n")
}
