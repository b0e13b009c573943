// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the streaming chat view for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui/components"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. Conversation state lives
// in the session store; the model only holds presentation state.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Session state and turn lifecycle.
	// Pointers so Bubble Tea model copies share the same state.
	store      *session.Store
	controller *Controller

	// Markdown rendering for assistant replies
	renderer *MarkdownRenderer

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner

	// Suggestion selection. -1 means no suggestion selected.
	suggestionIdx int

	// Error banner shown under the transcript until dismissed
	lastError *ErrorMsg
}

// New creates a new chat model backed by the given store and controller.
func New(theme *styles.Theme, store *session.Store, controller *Controller) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the document..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	return Model{
		theme:         theme,
		store:         store,
		controller:    controller,
		renderer:      NewMarkdownRenderer(74),
		viewport:      vp,
		input:         ti,
		spinner:       components.NewThinkingSpinner(),
		suggestionIdx: -1,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		cmd := m.controller.HandleStart(msg)
		if m.controller.Phase() == PhaseStreaming {
			cmds = append(cmds, m.spinner.Start())
		}
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case StreamFragmentMsg:
		cmd := m.controller.HandleFragment(msg)
		return m, cmd

	case StreamTickMsg:
		cmd := m.controller.HandleTick(msg)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, cmd

	case StreamCompleteMsg:
		cmd := m.controller.HandleComplete(msg)
		m.spinner.Stop()
		m.updateViewport()
		m.viewport.GotoBottom()
		m.input.Focus()
		return m, tea.Batch(cmd, textinput.Blink)

	case StreamErrorMsg:
		cmd := m.controller.HandleError(msg)
		m.spinner.Stop()
		m.updateViewport()
		m.input.Focus()
		return m, tea.Batch(cmd, textinput.Blink)

	case SuggestionsMsg:
		m.controller.HandleSuggestions(msg)
		m.suggestionIdx = -1
		return m, nil

	case ErrorMsg:
		m.lastError = &msg
		return m, nil

	case spinner.TickMsg:
		if m.spinner.IsActive() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	default:
		// Forward anything unhandled to the text input and viewport so
		// cursor blink and scroll events keep working.
		if !m.controller.Busy() {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)

		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Layout: transcript viewport (dynamic) + suggestions + input area.
	// Conservative estimates prevent viewport overflow.
	reservedHeight := inputAreaHeight
	if len(m.store.Suggestions()) > 0 {
		reservedHeight += suggestionAreaHeight
	}
	if m.lastError != nil {
		reservedHeight += errorBannerHeight
	}

	viewportHeight := m.height - reservedHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}

	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	const promptLen = 2 // "> "
	inputWidth := m.width - 6 - promptLen
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	// Wrap assistant markdown inside the bubble, which is narrower than
	// the full terminal width.
	m.renderer.SetWidth(bubbleContentWidth(m.width))

	m.updateViewport()

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Dismiss the error banner on any key.
	if m.lastError != nil {
		m.lastError = nil
		switch keyStr {
		case "esc", "enter", " ":
			return m, nil
		}
		// Other keys fall through so typing resumes immediately.
	}

	// ==========================================================================
	// STREAMING STATE
	// ==========================================================================

	if m.controller.Busy() {
		switch keyStr {
		case "esc", "ctrl+c":
			m.controller.Cancel()
			m.spinner.Stop()
			m.updateViewport()
			m.input.Focus()
			return m, textinput.Blink
		}
		// Allow scrolling while the reply streams in.
		return m.handleNavigationKeys(msg)
	}

	// ==========================================================================
	// READY STATE
	// ==========================================================================

	switch keyStr {
	case "enter":
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			// Submit the selected suggestion, if any.
			content = m.selectedSuggestion()
			if content == "" {
				return m, nil
			}
		}
		return m.submit(content)

	case "ctrl+r":
		return m.regenerate()

	case "up", "down":
		if m.input.Value() == "" && len(m.store.Suggestions()) > 0 {
			return m.moveSuggestion(keyStr == "down"), nil
		}

	case "pgup", "pgdown", "home", "end", "ctrl+u", "ctrl+d":
		return m.handleNavigationKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNavigationKeys handles viewport scrolling keys.
func (m Model) handleNavigationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
	case "up":
		m.viewport.LineUp(1)
	case "down":
		m.viewport.LineDown(1)
	case "home":
		m.viewport.GotoTop()
	case "end":
		m.viewport.GotoBottom()
	}
	return m, nil
}

// =============================================================================
// SUBMISSION AND REGENERATION
// =============================================================================

func (m Model) submit(content string) (tea.Model, tea.Cmd) {
	if !m.controller.StartTurn(content) {
		return m, nil
	}

	m.input.Reset()
	m.suggestionIdx = -1
	m.lastError = nil
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, m.spinner.Start()
}

func (m Model) regenerate() (tea.Model, tea.Cmd) {
	if !m.controller.Regenerate() {
		return m, nil
	}

	m.suggestionIdx = -1
	m.lastError = nil
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, m.spinner.Start()
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func (m Model) moveSuggestion(forward bool) Model {
	suggestions := m.store.Suggestions()
	n := len(suggestions)
	if n == 0 {
		m.suggestionIdx = -1
		return m
	}

	if forward {
		m.suggestionIdx = (m.suggestionIdx + 1) % n
	} else {
		m.suggestionIdx--
		if m.suggestionIdx < 0 {
			m.suggestionIdx = n - 1
		}
	}
	return m
}

func (m Model) selectedSuggestion() string {
	suggestions := m.store.Suggestions()
	if m.suggestionIdx < 0 || m.suggestionIdx >= len(suggestions) {
		return ""
	}
	return suggestions[m.suggestionIdx]
}

// =============================================================================
// EXTERNAL STATE CHANGES
// =============================================================================

// Refresh re-renders the transcript from the store. The app root calls this
// after document switches or any store mutation made outside this view.
func (m *Model) Refresh() {
	m.suggestionIdx = -1
	m.lastError = nil
	m.updateViewport()
	m.viewport.GotoBottom()
}

// Controller exposes the turn controller for the app root.
func (m *Model) Controller() *Controller {
	return m.controller
}

// IsStreaming reports whether a reply is currently in flight.
func (m *Model) IsStreaming() bool {
	return m.controller.Busy()
}

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}
