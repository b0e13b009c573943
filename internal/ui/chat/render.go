// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render.go - Markdown rendering for assistant replies.
//
// USABILITY: Markdown rendering with syntax highlighting for better
// readability of assistant answers in the chat transcript.
//
// The renderer is rebuilt lazily whenever the wrap width changes, since
// glamour bakes the word-wrap width into the TermRenderer at construction.
package chat

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MinRenderWidth is the narrowest wrap width the renderer will accept.
// Below this, markdown tables and code fences degrade badly.
const MinRenderWidth = 20

// MarkdownRenderer renders assistant markdown for terminal display.
// Safe for concurrent use.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	r := &MarkdownRenderer{}
	r.SetWidth(width)
	return r
}

// SetWidth rebuilds the underlying renderer if the wrap width changed.
func (r *MarkdownRenderer) SetWidth(width int) {
	if width < MinRenderWidth {
		width = MinRenderWidth
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.renderer != nil && r.width == width {
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		r.renderer = nil
		r.width = width
		return
	}

	r.renderer = renderer
	r.width = width
}

// Render renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func (r *MarkdownRenderer) Render(content string) string {
	r.mu.Lock()
	renderer := r.renderer
	r.mu.Unlock()

	if renderer == nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	// Glamour pads with leading/trailing blank lines that the bubble
	// layout already provides.
	return strings.Trim(rendered, "\n")
}
