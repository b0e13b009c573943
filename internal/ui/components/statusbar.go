// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docentlabs/docent/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusStreaming
	StatusThinking
	StatusUploading
	StatusLoading
	StatusError
	StatusIdle
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusStreaming:
		return "Streaming..."
	case StatusThinking:
		return "Thinking..."
	case StatusUploading:
		return "Uploading..."
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status.
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusStreaming:
		return "~"
	case StatusThinking, StatusLoading, StatusUploading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return "-"
	default:
		return "?"
	}
}

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar represents the bottom status bar.
type StatusBar struct {
	Status        Status // Current status
	DocumentName  string // Active document title
	DocumentMeta  string // Active document metadata line
	MessageCount  int    // Messages in the current chat
	Connected     bool   // Backend reachability
	Width         int    // Available width
	ShowShortcuts bool   // Show keyboard shortcuts
	Shortcuts     []Shortcut
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		Shortcuts: []Shortcut{
			{Key: "tab", Desc: "panels"},
			{Key: "ctrl+r", Desc: "regenerate"},
			{Key: "ctrl+c", Desc: "quit"},
		},
		theme: theme,
	}
}

// SetWidth updates the status bar width.
func (b *StatusBar) SetWidth(width int) {
	b.Width = width
}

// SetStatus updates the current status.
func (b *StatusBar) SetStatus(status Status) {
	b.Status = status
}

// SetDocument updates the active document display.
func (b *StatusBar) SetDocument(name, meta string) {
	b.DocumentName = name
	b.DocumentMeta = meta
}

// SetConnected updates the backend reachability indicator.
func (b *StatusBar) SetConnected(connected bool) {
	b.Connected = connected
}

// SetMessageCount updates the chat message counter.
func (b *StatusBar) SetMessageCount(n int) {
	b.MessageCount = n
}

// View renders the status bar.
func (b *StatusBar) View() string {
	width := b.Width
	if width < 40 {
		width = 40
	}

	var left []string

	// Status with icon
	statusStyle := b.statusStyle()
	left = append(left, statusStyle.Render(b.Status.Icon()+" "+b.Status.String()))

	// Document context
	if b.DocumentName != "" {
		docStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		left = append(left, docStyle.Render(b.DocumentName))

		if b.DocumentMeta != "" {
			metaStyle := lipgloss.NewStyle().
				Foreground(styles.TextMuted)
			left = append(left, metaStyle.Render(b.DocumentMeta))
		}
	}

	if b.MessageCount > 0 {
		countStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		left = append(left, countStyle.Render(fmtNumber(b.MessageCount)+" msgs"))
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.OverlayDim).
		Render(" | ")

	leftView := strings.Join(left, separator)

	// Right side: shortcuts or connection state
	var rightView string
	if b.ShowShortcuts && width >= 80 {
		rightView = b.renderShortcuts()
	} else {
		rightView = b.connectionView()
	}

	// Pad the middle
	gap := width - lipgloss.Width(leftView) - lipgloss.Width(rightView) - 2
	if gap < 1 {
		gap = 1
	}

	bar := leftView + strings.Repeat(" ", gap) + rightView

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(width).
		Render(bar)
}

func (b *StatusBar) statusStyle() lipgloss.Style {
	switch b.Status {
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	case StatusStreaming, StatusThinking, StatusUploading, StatusLoading:
		return lipgloss.NewStyle().Foreground(styles.Amber)
	default:
		return lipgloss.NewStyle().Foreground(styles.Emerald)
	}
}

func (b *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	parts := make([]string, 0, len(b.Shortcuts))
	for _, sc := range b.Shortcuts {
		parts = append(parts, keyStyle.Render(sc.Key)+" "+descStyle.Render(sc.Desc))
	}
	return strings.Join(parts, "  ")
}

func (b *StatusBar) connectionView() string {
	if b.Connected {
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Render(styles.StatusIndicators.Active + " online")
	}
	return lipgloss.NewStyle().
		Foreground(styles.Rose).
		Render(styles.StatusIndicators.Error + " offline")
}
