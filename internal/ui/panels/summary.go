// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// summary.go - Summary panel. Generation is explicit and costly, so the
// panel waits for the user to request it rather than fetching eagerly.
package panels

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/chat"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// Summary is the document summary panel.
type Summary struct {
	theme    *styles.Theme
	store    *session.Store
	commands *Commands
	renderer *chat.MarkdownRenderer

	width    int
	height   int
	viewport viewport.Model
}

// NewSummary creates the summary panel.
func NewSummary(theme *styles.Theme, store *session.Store, commands *Commands) Summary {
	return Summary{
		theme:    theme,
		store:    store,
		commands: commands,
		renderer: chat.NewMarkdownRenderer(74),
		viewport: viewport.New(80, 20),
	}
}

// SetSize updates the panel dimensions.
func (p *Summary) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = width
	vh := height - 3 // title + footer
	if vh < 1 {
		vh = 1
	}
	p.viewport.Height = vh
	p.renderer.SetWidth(width - 6)
	p.refreshContent()
}

// Update handles messages for the summary panel.
func (p Summary) Update(msg tea.Msg) (Summary, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "g", "enter":
			if p.store.IsLoading().Summary {
				return p, nil
			}
			docID := p.store.CurrentDocumentID()
			if docID == "" {
				return p, nil
			}
			p.store.SetLoadingSummary(true)
			return p, p.commands.GenerateSummary(docID)
		default:
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}

	case SummaryMsg:
		// Drop results for a document the user has switched away from.
		if msg.DocumentID != p.store.CurrentDocumentID() {
			return p, nil
		}
		p.store.SetLoadingSummary(false)
		if msg.Err != nil {
			return p, errorCmd("Summary failed", msg.Err)
		}
		p.store.SetSummary(&model.Summary{
			Text:       msg.Text,
			TargetLen:  msg.TargetLen,
			DocumentID: msg.DocumentID,
		})
		p.refreshContent()
		p.viewport.GotoTop()
		return p, nil
	}
	return p, nil
}

// Refresh re-renders the panel content from the store.
func (p *Summary) Refresh() {
	p.refreshContent()
	p.viewport.GotoTop()
}

func (p *Summary) refreshContent() {
	summary := p.store.Summary()
	if summary == nil {
		p.viewport.SetContent("")
		return
	}
	p.viewport.SetContent(p.renderer.Render(summary.Text))
}

// View renders the summary panel.
func (p Summary) View() string {
	title := p.theme.PanelTitle.Render("Summary")

	var body string
	switch {
	case p.store.IsLoading().Summary:
		body = p.theme.PanelLoading.Render("Generating summary...")
	case p.store.Summary() == nil:
		body = p.theme.PanelEmpty.Render("No summary yet. Press g to generate one.")
	default:
		body = p.viewport.View()
	}

	footer := p.theme.StatusBar.Render("g regenerate | up/down scroll")
	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}
