// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// notes.go - Notes panel: list persisted notes and edit them in place.
//
// The editor is modal within the panel: browse mode navigates the list,
// edit mode captures all keys into the title input and content textarea
// until save or cancel.
package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// notesMode is the input mode of the notes panel.
type notesMode int

const (
	notesBrowse notesMode = iota
	notesEditTitle
	notesEditContent
	notesConfirmDelete
)

// Notes is the notes panel.
type Notes struct {
	theme    *styles.Theme
	store    *session.Store
	commands *Commands

	width  int
	height int

	mode    notesMode
	cursor  int
	loading bool

	// Editor state. editingID is empty when creating a new note.
	editingID  string
	titleInput textinput.Model
	content    textarea.Model
}

// NewNotes creates the notes panel.
func NewNotes(theme *styles.Theme, store *session.Store, commands *Commands) Notes {
	ti := textinput.New()
	ti.Prompt = "Title: "
	ti.Placeholder = "Note title"
	ti.CharLimit = 256

	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	return Notes{
		theme:      theme,
		store:      store,
		commands:   commands,
		titleInput: ti,
		content:    ta,
	}
}

// SetSize updates the panel dimensions.
func (p *Notes) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.titleInput.Width = width - 12
	p.content.SetWidth(width - 6)
	ch := height - 8
	if ch < 3 {
		ch = 3
	}
	p.content.SetHeight(ch)
}

// Refresh fetches the document's notes. Called on panel activation and
// document switch.
func (p *Notes) Refresh() tea.Cmd {
	p.mode = notesBrowse
	p.cursor = 0
	p.editingID = ""

	docID := p.store.CurrentDocumentID()
	if docID == "" {
		return nil
	}
	p.loading = true
	return p.commands.LoadNotes(docID)
}

// Update handles messages for the notes panel.
func (p Notes) Update(msg tea.Msg) (Notes, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)

	case NotesLoadedMsg:
		p.loading = false
		if msg.DocumentID != p.store.CurrentDocumentID() {
			return p, nil
		}
		if msg.Err != nil {
			return p, errorCmd("Failed to load notes", msg.Err)
		}
		p.store.SetNotes(msg.Notes)
		p.clampCursor()
		return p, nil

	case NoteSavedMsg:
		if msg.Err != nil {
			return p, errorCmd("Failed to save note", msg.Err)
		}
		if msg.DocumentID != p.store.CurrentDocumentID() {
			return p, nil
		}
		if msg.Created {
			p.store.AddNote(msg.Note)
		} else {
			p.store.UpdateNote(msg.Note)
		}
		return p, nil

	case NoteDeletedMsg:
		if msg.Err != nil {
			return p, errorCmd("Failed to delete note", msg.Err)
		}
		if msg.DocumentID != p.store.CurrentDocumentID() {
			return p, nil
		}
		p.store.RemoveNote(msg.NoteID)
		p.clampCursor()
		return p, nil
	}

	return p.updateEditor(msg)
}

func (p Notes) updateEditor(msg tea.Msg) (Notes, tea.Cmd) {
	var cmd tea.Cmd
	switch p.mode {
	case notesEditTitle:
		p.titleInput, cmd = p.titleInput.Update(msg)
	case notesEditContent:
		p.content, cmd = p.content.Update(msg)
	}
	return p, cmd
}

func (p Notes) handleKey(msg tea.KeyMsg) (Notes, tea.Cmd) {
	keyStr := msg.String()

	switch p.mode {
	case notesEditTitle, notesEditContent:
		switch keyStr {
		case "esc":
			p.mode = notesBrowse
			p.editingID = ""
			p.titleInput.Blur()
			p.content.Blur()
			return p, nil
		case "tab":
			// Toggle between title and content.
			if p.mode == notesEditTitle {
				p.mode = notesEditContent
				p.titleInput.Blur()
				return p, p.content.Focus()
			}
			p.mode = notesEditTitle
			p.content.Blur()
			p.titleInput.Focus()
			return p, textinput.Blink
		case "ctrl+s":
			return p.save()
		}
		return p.updateEditor(msg)

	case notesConfirmDelete:
		p.mode = notesBrowse
		if keyStr == "y" || keyStr == "Y" {
			if note := p.selected(); note != nil {
				return p, p.commands.DeleteNote(p.store.CurrentDocumentID(), note.ID)
			}
		}
		return p, nil
	}

	// Browse mode
	notes := p.store.Notes()
	switch keyStr {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(notes)-1 {
			p.cursor++
		}
	case "n":
		if p.store.CurrentDocumentID() == "" {
			return p, nil
		}
		p.editingID = ""
		p.titleInput.Reset()
		p.content.Reset()
		p.mode = notesEditTitle
		p.titleInput.Focus()
		return p, textinput.Blink
	case "enter", "e":
		if note := p.selected(); note != nil {
			p.editingID = note.ID
			p.titleInput.SetValue(note.Title)
			p.content.SetValue(note.Content)
			p.mode = notesEditContent
			return p, p.content.Focus()
		}
	case "d":
		if p.selected() != nil {
			p.mode = notesConfirmDelete
		}
	case "r":
		return p, p.Refresh()
	}
	return p, nil
}

// save submits the editor's contents and returns to browse mode.
func (p Notes) save() (Notes, tea.Cmd) {
	title := strings.TrimSpace(p.titleInput.Value())
	content := p.content.Value()
	if title == "" && strings.TrimSpace(content) == "" {
		return p, nil
	}
	if title == "" {
		title = "Untitled"
	}

	docID := p.store.CurrentDocumentID()
	editingID := p.editingID

	p.mode = notesBrowse
	p.editingID = ""
	p.titleInput.Blur()
	p.content.Blur()

	if editingID == "" {
		return p, p.commands.CreateNote(docID, title, content)
	}
	return p, p.commands.UpdateNote(docID, editingID, title, content)
}

// Editing reports whether the editor is open. The app root forwards tab
// to the panel instead of switching views while it is.
func (p *Notes) Editing() bool {
	return p.mode == notesEditTitle || p.mode == notesEditContent
}

func (p *Notes) selected() *model.Note {
	notes := p.store.Notes()
	if p.cursor < 0 || p.cursor >= len(notes) {
		return nil
	}
	return notes[p.cursor]
}

func (p *Notes) clampCursor() {
	n := len(p.store.Notes())
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

// View renders the notes panel.
func (p Notes) View() string {
	title := p.theme.PanelTitle.Render("Notes")

	if p.mode == notesEditTitle || p.mode == notesEditContent {
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			p.titleInput.View(),
			p.content.View(),
			p.theme.StatusBar.Render("ctrl+s save | tab switch field | esc cancel"),
		)
	}

	var body string
	switch {
	case p.loading:
		body = p.theme.PanelLoading.Render("Loading notes...")
	case len(p.store.Notes()) == 0:
		body = p.theme.PanelEmpty.Render("No notes yet. Press n to write one.")
	default:
		body = p.renderList()
	}

	var footer string
	if p.mode == notesConfirmDelete {
		footer = p.theme.ErrorTitle.Render("Delete this note? (y/n)")
	} else {
		footer = p.theme.StatusBar.Render("n new | enter edit | d delete | r refresh")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}

func (p Notes) renderList() string {
	notes := p.store.Notes()

	var b strings.Builder
	for i, note := range notes {
		line := note.Title + "  " + p.theme.ListMeta.Render(note.Preview(p.width-30))
		if i == p.cursor {
			b.WriteString(p.theme.ListSelected.Render("> " + line))
		} else {
			b.WriteString(p.theme.ListItem.Render("  " + line))
		}
		if i < len(notes)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
