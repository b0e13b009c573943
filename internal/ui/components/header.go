// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docentlabs/docent/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with document context
// =============================================================================

// Header represents the title bar component.
type Header struct {
	Title        string // Main title (default: "docent")
	DocumentName string // Active document title, empty when none
	Connected    bool   // Backend reachability
	Width        int    // Available width
	theme        *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:     "docent",
		Connected: false,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetDocument updates the active document title.
func (h *Header) SetDocument(name string) {
	h.DocumentName = name
}

// SetConnected updates the backend reachability indicator.
func (h *Header) SetConnected(connected bool) {
	h.Connected = connected
}

// View renders the header component.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	// Inner width accounts for borders and padding
	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	subtitleParts := []string{}

	if h.DocumentName != "" {
		docStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, docStyle.Render(h.DocumentName))
	} else {
		noneStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		subtitleParts = append(subtitleParts, noneStyle.Render("no document"))
	}

	subtitleParts = append(subtitleParts, h.connectionBadge())

	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.DocumentName != "" {
		docStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, docStyle.Render(h.DocumentName))
	}

	parts = append(parts, h.connectionBadge())

	separator := lipgloss.NewStyle().
		Foreground(styles.OverlayDim).
		Render(" | ")

	return strings.Join(parts, separator)
}

// connectionBadge renders the backend reachability indicator.
// ACCESSIBILITY: Pairs a shape indicator with color.
func (h *Header) connectionBadge() string {
	if h.Connected {
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true).
			Render("[" + styles.StatusIndicators.Active + " online]")
	}
	return lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true).
		Render("[" + styles.StatusIndicators.Error + " offline]")
}
