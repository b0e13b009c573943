// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/docentlabs/docent/internal/model"
)

// MarkdownExporter renders a bundle as a Markdown study sheet with
// YAML frontmatter. Output is meant to drop straight into Obsidian or
// any other Markdown-based note system.
type MarkdownExporter struct {
	opts *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{opts: opts}
}

// Export renders the bundle to Markdown bytes.
func (e *MarkdownExporter) Export(b *Bundle) ([]byte, error) {
	var sb strings.Builder

	e.writeFrontmatter(&sb, b)

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(b.title())))

	if e.opts.IncludeMetadata && b.Document != nil {
		e.writeMetadata(&sb, b)
	}

	if b.Summary != nil && b.Summary.Text != "" {
		sb.WriteString("## Summary\n\n")
		sb.WriteString(strings.TrimSpace(b.Summary.Text))
		sb.WriteString("\n\n")
	}

	if b.Keywords != nil && len(b.Keywords.Keywords) > 0 {
		sb.WriteString("## Keywords\n\n")
		for _, kw := range b.Keywords.Keywords {
			sb.WriteString(fmt.Sprintf("- %s\n", escapeMarkdown(kw)))
		}
		sb.WriteString("\n")
	}

	if len(b.Notes) > 0 {
		e.writeNotes(&sb, b.Notes)
	}

	if len(b.Flashcards) > 0 {
		e.writeFlashcards(&sb, b.Flashcards)
	}

	if len(b.Transcript) > 0 {
		e.writeTranscript(&sb, b.Transcript)
	}

	return []byte(sb.String()), nil
}

// FileExtension returns "md".
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}

// MimeType returns the Markdown MIME type.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func (e *MarkdownExporter) writeFrontmatter(sb *strings.Builder, b *Bundle) {
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(b.title())))
	sb.WriteString(fmt.Sprintf("exported: %s\n", formatTimestamp(b.ExportedAt)))
	if b.Document != nil {
		sb.WriteString(fmt.Sprintf("document_id: %s\n", b.Document.ID))
	}
	sb.WriteString(fmt.Sprintf("kind: %s\n", b.Kind))
	sb.WriteString("generator: docent\n")
	sb.WriteString("---\n\n")
}

func (e *MarkdownExporter) writeMetadata(sb *strings.Builder, b *Bundle) {
	doc := b.Document
	sb.WriteString("## Document Information\n\n")
	sb.WriteString(fmt.Sprintf("- **Size**: %s\n", doc.SizeString()))
	sb.WriteString(fmt.Sprintf("- **Pages**: %d\n", doc.PageCount))
	if !doc.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("- **Uploaded**: %s\n", formatTimestamp(doc.CreatedAt)))
	}
	sb.WriteString("\n")
}

func (e *MarkdownExporter) writeNotes(sb *strings.Builder, notes []*model.Note) {
	sb.WriteString("## Notes\n\n")
	for i, note := range notes {
		title := note.Title
		if title == "" {
			title = fmt.Sprintf("Note %d", i+1)
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n", escapeMarkdown(title)))
		sb.WriteString(strings.TrimSpace(note.Content))
		sb.WriteString("\n\n")
	}
}

func (e *MarkdownExporter) writeFlashcards(sb *strings.Builder, cards []*model.Flashcard) {
	sb.WriteString("## Flashcards\n\n")
	for i, card := range cards {
		sb.WriteString(fmt.Sprintf("**Q%d:** %s\n\n", i+1, strings.TrimSpace(card.Question)))
		sb.WriteString(fmt.Sprintf("**A%d:** %s\n\n", i+1, strings.TrimSpace(card.Answer)))
		if i < len(cards)-1 {
			sb.WriteString("---\n\n")
		}
	}
}

func (e *MarkdownExporter) writeTranscript(sb *strings.Builder, msgs []*model.Message) {
	sb.WriteString("## Chat Transcript\n\n")
	for _, msg := range msgs {
		label := msg.Role.DisplayName()
		sb.WriteString(fmt.Sprintf("**[%s]**", label))
		if !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf(" *%s*", msg.Timestamp.Local().Format("15:04:05")))
		}
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n---\n\n")
	}
}

// escapeMarkdown escapes characters that would change Markdown
// structure inside headings and list items. Body text is left as-is
// since answers from the backend may legitimately contain Markdown.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(s)
}

// escapeYAML quotes a YAML scalar when it contains characters that
// would break frontmatter parsing.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#\"'\n{}[]") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
