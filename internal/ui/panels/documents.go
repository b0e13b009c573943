// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// documents.go - Document list panel: browse, select, upload, delete.
package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// documentsMode is the input mode of the documents panel.
type documentsMode int

const (
	docsBrowse documentsMode = iota
	docsUploadPath
	docsConfirmDelete
)

// Documents is the document list panel.
type Documents struct {
	theme    *styles.Theme
	store    *session.Store
	commands *Commands

	width  int
	height int

	mode      documentsMode
	cursor    int
	loading   bool
	pathInput textinput.Model
}

// NewDocuments creates the documents panel.
func NewDocuments(theme *styles.Theme, store *session.Store, commands *Commands) Documents {
	ti := textinput.New()
	ti.Prompt = "Path: "
	ti.Placeholder = "/path/to/document.pdf"
	ti.CharLimit = 1024

	// The app fetches the list on startup, so the panel starts in the
	// loading state.
	return Documents{
		theme:     theme,
		store:     store,
		commands:  commands,
		loading:   true,
		pathInput: ti,
	}
}

// SetSize updates the panel dimensions.
func (p *Documents) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.pathInput.Width = width - 12
}

// Refresh fetches the document list from the backend.
func (p *Documents) Refresh() tea.Cmd {
	p.loading = true
	return p.commands.LoadDocuments()
}

// Update handles messages for the documents panel.
func (p Documents) Update(msg tea.Msg) (Documents, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case DocumentsLoadedMsg:
		p.loading = false
		if msg.Err != nil {
			return p, errorCmd("Failed to load documents", msg.Err)
		}
		p.store.SetDocuments(msg.Documents)
		p.clampCursor()
		return p, nil

	case DocumentUploadedMsg:
		p.store.SetUploading(false)
		if msg.Err != nil {
			return p, errorCmd("Upload failed: "+msg.Filename, msg.Err)
		}
		p.store.AddDocument(msg.Document)
		// A fresh upload becomes the active document right away.
		return p, func() tea.Msg {
			return SelectDocumentMsg{Document: msg.Document}
		}

	case DocumentDeletedMsg:
		if msg.Err != nil {
			return p, errorCmd("Delete failed", msg.Err)
		}
		p.store.RemoveDocument(msg.DocumentID)
		p.clampCursor()
		return p, nil
	}

	if p.mode == docsUploadPath {
		var cmd tea.Cmd
		p.pathInput, cmd = p.pathInput.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p Documents) handleKey(msg tea.KeyMsg) (Documents, tea.Cmd) {
	keyStr := msg.String()

	switch p.mode {
	case docsUploadPath:
		switch keyStr {
		case "esc":
			p.mode = docsBrowse
			p.pathInput.Reset()
			return p, nil
		case "enter":
			path := strings.TrimSpace(p.pathInput.Value())
			if path == "" {
				return p, nil
			}
			p.mode = docsBrowse
			p.pathInput.Reset()
			p.store.SetUploading(true)
			return p, p.commands.Upload(path)
		}
		var cmd tea.Cmd
		p.pathInput, cmd = p.pathInput.Update(msg)
		return p, cmd

	case docsConfirmDelete:
		switch keyStr {
		case "y", "Y":
			p.mode = docsBrowse
			if doc := p.selected(); doc != nil {
				return p, p.commands.DeleteDocument(doc.ID)
			}
			return p, nil
		default:
			p.mode = docsBrowse
			return p, nil
		}
	}

	// Browse mode
	docs := p.store.Documents()
	switch keyStr {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(docs)-1 {
			p.cursor++
		}
	case "enter":
		if doc := p.selected(); doc != nil {
			return p, func() tea.Msg {
				return SelectDocumentMsg{Document: doc}
			}
		}
	case "u":
		p.mode = docsUploadPath
		p.pathInput.Focus()
		return p, textinput.Blink
	case "d":
		if p.selected() != nil {
			p.mode = docsConfirmDelete
		}
	case "r":
		return p, p.Refresh()
	}
	return p, nil
}

func (p *Documents) selected() *model.Document {
	docs := p.store.Documents()
	if p.cursor < 0 || p.cursor >= len(docs) {
		return nil
	}
	return docs[p.cursor]
}

func (p *Documents) clampCursor() {
	n := len(p.store.Documents())
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the documents panel.
func (p Documents) View() string {
	title := p.theme.PanelTitle.Render("Documents")

	var body string
	switch {
	case p.store.IsLoading().Uploading:
		body = p.theme.PanelLoading.Render("Uploading...")
	case p.loading:
		body = p.theme.PanelLoading.Render("Loading documents...")
	default:
		body = p.renderList()
	}

	var footer string
	switch p.mode {
	case docsUploadPath:
		footer = p.pathInput.View()
	case docsConfirmDelete:
		footer = p.theme.ErrorTitle.Render("Delete document and its notes and flashcards? (y/n)")
	default:
		footer = p.theme.StatusBar.Render("enter open | u upload | d delete | r refresh")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}

func (p Documents) renderList() string {
	docs := p.store.Documents()
	if len(docs) == 0 {
		return p.theme.PanelEmpty.Render("No documents yet. Press u to upload a PDF.")
	}

	activeID := p.store.CurrentDocumentID()
	var b strings.Builder
	for i, doc := range docs {
		line := doc.Title(p.width-24) + "  " + p.theme.ListMeta.Render(doc.MetaString())
		if doc.ID == activeID {
			line = line + " " + p.theme.ListID.Render("[active]")
		}
		if i == p.cursor {
			b.WriteString(p.theme.ListSelected.Render("> " + line))
		} else {
			b.WriteString(p.theme.ListItem.Render("  " + line))
		}
		if i < len(docs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
