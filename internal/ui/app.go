// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Root Bubble Tea model: tab bar, view routing, toasts.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/config"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/chat"
	"github.com/docentlabs/docent/internal/ui/components"
	"github.com/docentlabs/docent/internal/ui/panels"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// =============================================================================
// VIEWS
// =============================================================================

// View identifies a top-level tab.
type View int

const (
	ViewChat View = iota
	ViewDocuments
	ViewSummary
	ViewKeywords
	ViewFlashcards
	ViewNotes

	viewCount
)

// String returns the tab label.
func (v View) String() string {
	switch v {
	case ViewChat:
		return "Chat"
	case ViewDocuments:
		return "Documents"
	case ViewSummary:
		return "Summary"
	case ViewKeywords:
		return "Keywords"
	case ViewFlashcards:
		return "Flashcards"
	case ViewNotes:
		return "Notes"
	default:
		return "?"
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// HealthMsg carries the result of a backend reachability probe.
type HealthMsg struct {
	Connected bool
	Err       error
}

// healthTickMsg triggers a periodic reachability probe.
type healthTickMsg struct{}

const healthInterval = 30 * time.Second

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root model. It owns the header, tab bar, status bar, and
// toast stack, and routes messages to the views.
//
// Routing rule: key messages go to the active view only; every other
// message fans out to all views. Result message types are disjoint per
// view, so fan-out never double-applies a store mutation.
type App struct {
	theme  *styles.Theme
	store  *session.Store
	client *api.Client

	chat       chat.Model
	documents  panels.Documents
	summary    panels.Summary
	keywords   panels.Keywords
	flashcards panels.Flashcards
	notes      panels.Notes

	commands *panels.Commands

	header    *components.Header
	statusBar *components.StatusBar
	toasts    *components.ToastManager

	active View
	width  int
	height int
	ready  bool
}

// NewApp wires the views over a shared store and controller.
func NewApp(theme *styles.Theme, store *session.Store, client *api.Client, controller *chat.Controller) App {
	commands := panels.NewCommands(client)

	return App{
		theme:      theme,
		store:      store,
		client:     client,
		chat:       chat.New(theme, store, controller),
		documents:  panels.NewDocuments(theme, store, commands),
		summary:    panels.NewSummary(theme, store, commands),
		keywords:   panels.NewKeywords(theme, store, commands),
		flashcards: panels.NewFlashcards(theme, store, commands),
		notes:      panels.NewNotes(theme, store, commands),
		commands:   commands,
		header:     components.NewHeader(theme),
		statusBar:  components.NewStatusBar(theme),
		toasts:     components.NewToastManager(),
		active:     ViewDocuments,
	}
}

// NewAppWithConfig wires the views and applies the configured
// generation defaults (summary length, keyword and flashcard counts).
func NewAppWithConfig(theme *styles.Theme, store *session.Store, client *api.Client, controller *chat.Controller, cfg *config.Config) App {
	a := NewApp(theme, store, client, controller)
	a.commands.SetDefaults(
		cfg.Features.SummaryLength,
		cfg.Features.KeywordCount,
		cfg.Features.FlashcardCount,
	)
	return a
}

// Init loads the document list and probes the backend.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.chat.Init(),
		a.documents.Refresh(),
		a.healthCheckCmd(),
		healthTickCmd(),
	)
}

func (a App) healthCheckCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := client.Health(ctx)
		return HealthMsg{Connected: err == nil, Err: err}
	}
}

func healthTickCmd() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case panels.SelectDocumentMsg:
		return a.activateDocument(msg)

	case panels.DocumentDeletedMsg:
		return a.handleDocumentDeleted(msg)

	case panels.ErrorMsg:
		a.toasts.AddError(msg.Title + ": " + msg.Message)
		return a, components.ToastTickCmd()

	case components.ToastTickMsg:
		a.toasts.TickToasts()
		if a.toasts.HasToasts() {
			return a, components.ToastTickCmd()
		}
		return a, nil

	case HealthMsg:
		a.header.SetConnected(msg.Connected)
		a.statusBar.SetConnected(msg.Connected)
		return a, nil

	case healthTickMsg:
		return a, tea.Batch(a.healthCheckCmd(), healthTickCmd())
	}

	// Everything else fans out to all views.
	return a.broadcast(msg)
}

func (a App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.ready = true

	a.header.SetWidth(msg.Width)
	a.statusBar.SetWidth(msg.Width)

	// Header, tab bar, and status bar each take one rendered row block.
	contentHeight := msg.Height - lipgloss.Height(a.header.ViewCompact()) - 2
	if contentHeight < 4 {
		contentHeight = 4
	}

	a.documents.SetSize(msg.Width, contentHeight)
	a.summary.SetSize(msg.Width, contentHeight)
	a.keywords.SetSize(msg.Width, contentHeight)
	a.flashcards.SetSize(msg.Width, contentHeight)
	a.notes.SetSize(msg.Width, contentHeight)

	cm, cmd := a.chat.Update(tea.WindowSizeMsg{Width: msg.Width, Height: contentHeight})
	a.chat = cm.(chat.Model)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch keyStr {
	case "ctrl+c":
		// While a stream is running, ctrl+c cancels it instead of
		// quitting. The chat view owns the cancel.
		if a.active == ViewChat && a.chat.IsStreaming() {
			break
		}
		return a, tea.Quit

	case "tab", "shift+tab":
		// The notes editor uses tab to switch fields.
		if a.active == ViewNotes && a.notes.Editing() {
			break
		}
		if keyStr == "tab" {
			a.active = (a.active + 1) % viewCount
		} else {
			a.active = (a.active - 1 + viewCount) % viewCount
		}
		return a, a.enterView()
	}

	// Key messages go to the active view only.
	return a.routeToActive(msg)
}

// enterView runs the active view's activation fetch, if it has one.
func (a *App) enterView() tea.Cmd {
	switch a.active {
	case ViewFlashcards:
		if len(a.store.Flashcards()) == 0 && !a.store.IsLoading().Flashcards {
			return a.flashcards.Refresh()
		}
	case ViewNotes:
		if len(a.store.Notes()) == 0 {
			return a.notes.Refresh()
		}
	case ViewChat:
		a.chat.Refresh()
	}
	return nil
}

// activateDocument makes a document current and resets every per-document
// view in one step, so no view ever observes a half-switched store.
func (a App) activateDocument(msg panels.SelectDocumentMsg) (tea.Model, tea.Cmd) {
	doc := msg.Document
	if doc == nil {
		return a, nil
	}
	if a.store.CurrentDocumentID() == doc.ID {
		a.active = ViewChat
		return a, nil
	}

	a.store.SetCurrentDocument(doc)
	a.store.ResetDocumentState()
	a.chat.Controller().ResetForDocument()
	a.chat.Refresh()
	a.summary.Refresh()

	a.header.SetDocument(doc.Title(40))
	a.statusBar.SetDocument(doc.Title(40), doc.MetaString())

	a.active = ViewChat
	return a, tea.Batch(a.flashcards.Refresh(), a.notes.Refresh())
}

// handleDocumentDeleted fans the deletion result out to the panels, then
// clears per-document state when the deleted document was the active one.
// RemoveDocument only drops the active pointer; derived state follows the
// same reset sequence as a document switch.
func (a App) handleDocumentDeleted(msg panels.DocumentDeletedMsg) (tea.Model, tea.Cmd) {
	wasActive := msg.Err == nil && a.store.CurrentDocumentID() == msg.DocumentID

	m, cmd := a.broadcast(msg)
	a = m.(App)
	if !wasActive {
		return a, cmd
	}

	a.store.ResetDocumentState()
	a.chat.Controller().ResetForDocument()
	a.chat.Refresh()
	a.summary.Refresh()

	a.header.SetDocument("")
	a.statusBar.SetDocument("", "")
	return a, cmd
}

func (a App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case ViewChat:
		var cm tea.Model
		cm, cmd = a.chat.Update(msg)
		a.chat = cm.(chat.Model)
	case ViewDocuments:
		a.documents, cmd = a.documents.Update(msg)
	case ViewSummary:
		a.summary, cmd = a.summary.Update(msg)
	case ViewKeywords:
		a.keywords, cmd = a.keywords.Update(msg)
	case ViewFlashcards:
		a.flashcards, cmd = a.flashcards.Update(msg)
	case ViewNotes:
		a.notes, cmd = a.notes.Update(msg)
	}
	return a, cmd
}

func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 6)

	cm, cmd := a.chat.Update(msg)
	a.chat = cm.(chat.Model)
	cmds = append(cmds, cmd)

	a.documents, cmd = a.documents.Update(msg)
	cmds = append(cmds, cmd)
	a.summary, cmd = a.summary.Update(msg)
	cmds = append(cmds, cmd)
	a.keywords, cmd = a.keywords.Update(msg)
	cmds = append(cmds, cmd)
	a.flashcards, cmd = a.flashcards.Update(msg)
	cmds = append(cmds, cmd)
	a.notes, cmd = a.notes.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "Starting..."
	}

	a.syncStatusBar()

	content := ""
	switch a.active {
	case ViewChat:
		content = a.chat.View()
	case ViewDocuments:
		content = a.documents.View()
	case ViewSummary:
		content = a.summary.View()
	case ViewKeywords:
		content = a.keywords.View()
	case ViewFlashcards:
		content = a.flashcards.View()
	case ViewNotes:
		content = a.notes.View()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		a.header.ViewCompact(),
		a.renderTabs(),
		content,
		a.statusBar.View(),
	)

	if a.toasts.HasToasts() {
		overlay := components.RenderToastStack(a.toasts.GetToasts(), a.width, a.height)
		if overlay != "" {
			screen = lipgloss.JoinVertical(lipgloss.Left, overlay, screen)
		}
	}
	return screen
}

func (a App) renderTabs() string {
	tabs := make([]string, 0, int(viewCount))
	for v := View(0); v < viewCount; v++ {
		label := " " + v.String() + " "
		if v == a.active {
			tabs = append(tabs, a.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, a.theme.Tab.Render(label))
		}
	}
	return a.theme.TabBar.Width(a.width).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
}

// syncStatusBar derives the status line from the store and controller.
func (a App) syncStatusBar() {
	loading := a.store.IsLoading()
	switch {
	case a.chat.IsStreaming():
		a.statusBar.SetStatus(components.StatusStreaming)
	case loading.Chat:
		a.statusBar.SetStatus(components.StatusThinking)
	case loading.Uploading:
		a.statusBar.SetStatus(components.StatusUploading)
	case loading.Summary || loading.Keywords || loading.Flashcards:
		a.statusBar.SetStatus(components.StatusLoading)
	case a.store.CurrentDocument() == nil:
		a.statusBar.SetStatus(components.StatusIdle)
	default:
		a.statusBar.SetStatus(components.StatusReady)
	}
	a.statusBar.SetMessageCount(len(a.store.Messages()))
}
