// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the chat view.
//
// Layout: messages (viewport) + [suggestions] + [error banner] + input area.
// Total height must equal m.height exactly to prevent overflow/underflow.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/ui/styles"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

// Conservative height estimates used by handleResize. These MUST stay in
// sync with the actual rendered heights below; larger-than-actual values
// only waste a line, smaller ones break the layout.
const (
	inputAreaHeight      = 3 // separator + input line + hint line
	suggestionAreaHeight = 5 // title + up to three suggestions + spacing
	errorBannerHeight    = 2
)

// bubbleContentWidth returns the wrap width for message content inside a
// bubble at the given terminal width.
func bubbleContentWidth(termWidth int) int {
	w := termWidth - 12
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	input := m.renderInput()
	messages := m.viewport.View()

	var sections []string
	sections = append(sections, messages)

	if suggestions := m.renderSuggestions(); suggestions != "" {
		sections = append(sections, suggestions)
	}
	if m.lastError != nil {
		sections = append(sections, m.renderErrorBanner())
	}
	sections = append(sections, input)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// MESSAGES
// =============================================================================

// renderMessages renders the transcript from the session store.
// Returns an empty state prompt when there is no history yet.
func (m *Model) renderMessages() string {
	messages := m.store.Messages()
	if len(messages) == 0 {
		return m.renderEmptyState()
	}

	var parts []string
	for i, msg := range messages {
		rendered := m.renderMessage(msg, i == len(messages)-1)
		if rendered != "" {
			parts = append(parts, rendered)
		}
	}

	// Thinking indicator while waiting for the first fragment.
	if m.controller.Phase() == PhaseSending {
		parts = append(parts, lipgloss.NewStyle().
			MarginLeft(2).
			Render(m.spinner.View()))
	}

	return strings.Join(parts, "\n")
}

func (m *Model) renderMessage(msg *model.Message, isLast bool) string {
	switch msg.Role {
	case model.RoleUser:
		return m.renderUserMessage(msg)
	case model.RoleAssistant:
		return m.renderAssistantMessage(msg, isLast)
	default:
		return msg.DisplayContent()
	}
}

// renderUserMessage renders a user question right-aligned in a cyan bubble.
func (m *Model) renderUserMessage(msg *model.Message) string {
	maxWidth := m.width - 8
	if maxWidth < 10 {
		maxWidth = 10
	}

	bubble := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		MaxWidth(maxWidth)

	wrapWidth := maxWidth - 4
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	rendered := bubble.Render(wrapText(msg.DisplayContent(), wrapWidth))

	// User messages align right.
	marginLeft := m.width - lipgloss.Width(rendered) - 4
	if marginLeft < 0 {
		marginLeft = 0
	}

	return lipgloss.NewStyle().
		MarginLeft(marginLeft).
		MarginTop(1).
		MarginBottom(1).
		Render(rendered)
}

// renderAssistantMessage renders an assistant reply. Settled replies go
// through the markdown renderer; streaming ones stay plain text with a
// cursor so partial markdown never flickers through half-parsed states.
func (m *Model) renderAssistantMessage(msg *model.Message, isLast bool) string {
	content := msg.DisplayContent()
	streaming := msg.IsStreaming && isLast

	if strings.TrimSpace(content) == "" && !streaming {
		return ""
	}

	var body string
	if streaming {
		cursor := lipgloss.NewStyle().
			Foreground(styles.Purple).
			Render("_")
		if content == "" {
			body = cursor
		} else {
			body = wrapText(content, bubbleContentWidth(m.width)) + cursor
		}
	} else {
		body = m.renderer.Render(content)
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		MarginBottom(1).
		MarginLeft(2).
		Render(body)
}

// renderEmptyState renders the prompt shown before any messages exist.
func (m *Model) renderEmptyState() string {
	doc := m.store.CurrentDocument()

	var lines []string
	if doc == nil {
		lines = append(lines,
			m.theme.WelcomeLogo.Render("No document selected"),
			"",
			m.theme.WelcomeInfo.Render("Open the Documents tab and pick a PDF to start chatting."),
		)
	} else {
		lines = append(lines,
			m.theme.WelcomeLogo.Render(doc.Title(48)),
			"",
			m.theme.WelcomeInfo.Render("Ask anything about this document."),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(
		m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

// renderSuggestions renders the follow-up suggestion list below the
// transcript. Hidden while a reply is in flight.
func (m Model) renderSuggestions() string {
	if m.controller.Busy() {
		return ""
	}
	suggestions := m.store.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Suggested follow-ups"))
	b.WriteString("\n")

	for i, s := range suggestions {
		line := truncateLine(s, m.width-6)
		if i == m.suggestionIdx {
			b.WriteString(m.theme.SuggestionSelected.Render("> " + line))
		} else {
			b.WriteString(m.theme.SuggestionItem.Render("  " + line))
		}
		if i < len(suggestions)-1 {
			b.WriteString("\n")
		}
	}

	return m.theme.SuggestionBox.Render(b.String())
}

// =============================================================================
// ERROR BANNER
// =============================================================================

func (m Model) renderErrorBanner() string {
	title := m.theme.ErrorTitle.Render(m.lastError.Title)
	detail := m.theme.ErrorMessage.Render(truncateLine(m.lastError.Message, m.width-4))
	return title + " " + detail
}

// =============================================================================
// INPUT AREA
// =============================================================================

// renderInput renders the separator, input line, and key hint line.
func (m Model) renderInput() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(strings.Repeat("─", width))

	inputLine := lipgloss.NewStyle().
		Width(width - 4).
		Padding(0, 1).
		Render(m.input.View())

	var hint string
	if m.controller.Busy() {
		hint = "esc cancel"
	} else {
		hint = "enter send | ctrl+r regenerate | up/down suggestions"
	}
	hintLine := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Padding(0, 1).
		Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left, separator, inputLine, hintLine)
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

// wrapText wraps text to the given display width, breaking on spaces where
// possible. Width-aware so CJK and emoji wrap correctly.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(wrapLine(line, width))
	}
	return out.String()
}

func wrapLine(line string, width int) string {
	if runewidth.StringWidth(line) <= width {
		return line
	}

	var out strings.Builder
	var cur strings.Builder
	curWidth := 0

	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+w > width {
			out.WriteString(cur.String())
			out.WriteString("\n")
			cur.Reset()
			curWidth = 0
		}
		if curWidth > 0 {
			cur.WriteString(" ")
			curWidth++
		}
		// Hard-break words wider than the wrap width.
		for runewidth.StringWidth(word) > width {
			head := runewidth.Truncate(word, width, "")
			cur.WriteString(head)
			out.WriteString(cur.String())
			out.WriteString("\n")
			cur.Reset()
			curWidth = 0
			word = strings.TrimPrefix(word, head)
		}
		cur.WriteString(word)
		curWidth += runewidth.StringWidth(word)
	}

	out.WriteString(cur.String())
	return out.String()
}

// truncateLine truncates a line to the given display width with an ellipsis.
func truncateLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "...")
}
