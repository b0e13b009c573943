// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/docentlabs/docent/internal/model"
)

// HTMLExporter renders a bundle as a standalone HTML page. The page
// is self-contained (inline CSS, no scripts, no external fetches) so
// it can be opened from disk or mailed around.
type HTMLExporter struct {
	opts *Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{opts: opts}
}

// Export renders the bundle to HTML bytes.
func (e *HTMLExporter) Export(b *Bundle) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(b.title())))
	sb.WriteString("<style>\n")
	sb.WriteString(e.css())
	sb.WriteString("</style>\n</head>\n<body>\n<main>\n")

	e.renderHeader(&sb, b)

	if b.Summary != nil && b.Summary.Text != "" {
		sb.WriteString("<section>\n<h2>Summary</h2>\n")
		sb.WriteString(paragraphs(b.Summary.Text))
		sb.WriteString("</section>\n")
	}

	if b.Keywords != nil && len(b.Keywords.Keywords) > 0 {
		sb.WriteString("<section>\n<h2>Keywords</h2>\n<div class=\"keywords\">\n")
		for _, kw := range b.Keywords.Keywords {
			sb.WriteString(fmt.Sprintf("<span class=\"keyword\">%s</span>\n", html.EscapeString(kw)))
		}
		sb.WriteString("</div>\n</section>\n")
	}

	if len(b.Notes) > 0 {
		e.renderNotes(&sb, b.Notes)
	}

	if len(b.Flashcards) > 0 {
		e.renderFlashcards(&sb, b.Flashcards)
	}

	if len(b.Transcript) > 0 {
		e.renderTranscript(&sb, b.Transcript)
	}

	sb.WriteString("<footer>Exported by docent on ")
	sb.WriteString(html.EscapeString(formatTimestamp(b.ExportedAt)))
	sb.WriteString("</footer>\n")
	sb.WriteString("</main>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns "html".
func (e *HTMLExporter) FileExtension() string {
	return "html"
}

// MimeType returns the HTML MIME type.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) renderHeader(sb *strings.Builder, b *Bundle) {
	sb.WriteString("<header>\n")
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(b.title())))
	if e.opts.IncludeMetadata && b.Document != nil {
		doc := b.Document
		sb.WriteString("<p class=\"meta\">")
		sb.WriteString(html.EscapeString(fmt.Sprintf("%s, %d pages", doc.SizeString(), doc.PageCount)))
		if !doc.CreatedAt.IsZero() {
			sb.WriteString(html.EscapeString(fmt.Sprintf(", uploaded %s", formatTimestamp(doc.CreatedAt))))
		}
		sb.WriteString("</p>\n")
	}
	sb.WriteString("</header>\n")
}

func (e *HTMLExporter) renderNotes(sb *strings.Builder, notes []*model.Note) {
	sb.WriteString("<section>\n<h2>Notes</h2>\n")
	for i, note := range notes {
		title := note.Title
		if title == "" {
			title = fmt.Sprintf("Note %d", i+1)
		}
		sb.WriteString("<article class=\"note\">\n")
		sb.WriteString(fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(title)))
		sb.WriteString(paragraphs(note.Content))
		sb.WriteString("</article>\n")
	}
	sb.WriteString("</section>\n")
}

func (e *HTMLExporter) renderFlashcards(sb *strings.Builder, cards []*model.Flashcard) {
	sb.WriteString("<section>\n<h2>Flashcards</h2>\n")
	for _, card := range cards {
		sb.WriteString("<article class=\"card\">\n")
		sb.WriteString(fmt.Sprintf("<p class=\"question\">%s</p>\n", html.EscapeString(card.Question)))
		sb.WriteString(fmt.Sprintf("<p class=\"answer\">%s</p>\n", html.EscapeString(card.Answer)))
		sb.WriteString("</article>\n")
	}
	sb.WriteString("</section>\n")
}

func (e *HTMLExporter) renderTranscript(sb *strings.Builder, msgs []*model.Message) {
	sb.WriteString("<section>\n<h2>Chat Transcript</h2>\n")
	for _, msg := range msgs {
		class := "assistant"
		if msg.Role == model.RoleUser {
			class = "user"
		}
		sb.WriteString(fmt.Sprintf("<article class=\"message %s\">\n", class))
		sb.WriteString(fmt.Sprintf("<p class=\"role\">%s", html.EscapeString(msg.Role.DisplayName())))
		if !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf(" <time>%s</time>", msg.Timestamp.Local().Format("15:04:05")))
		}
		sb.WriteString("</p>\n")
		sb.WriteString(paragraphs(msg.Content))
		sb.WriteString("</article>\n")
	}
	sb.WriteString("</section>\n")
}

// paragraphs escapes text and splits it on blank lines into <p> tags.
func paragraphs(text string) string {
	var sb strings.Builder
	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
		sb.WriteString("<p>")
		sb.WriteString(escaped)
		sb.WriteString("</p>\n")
	}
	return sb.String()
}

// css returns the inline stylesheet for the selected theme.
func (e *HTMLExporter) css() string {
	// Palette mirrors the terminal theme: cyan accents on a dark
	// background, or a plain print-friendly light variant.
	bg, fg, accent, panel, muted := "#1a1b26", "#c0caf5", "#7dcfff", "#24283b", "#565f89"
	if strings.EqualFold(e.opts.Theme, "light") {
		bg, fg, accent, panel, muted = "#fafafa", "#24292f", "#0969da", "#f0f2f5", "#6e7781"
	}
	return fmt.Sprintf(`body { background: %[1]s; color: %[2]s; font-family: -apple-system, "Segoe UI", sans-serif; line-height: 1.6; margin: 0; }
main { max-width: 780px; margin: 0 auto; padding: 2rem 1.5rem; }
h1 { color: %[3]s; margin-bottom: 0.25rem; }
h2 { color: %[3]s; border-bottom: 1px solid %[5]s; padding-bottom: 0.3rem; margin-top: 2rem; }
h3 { margin-bottom: 0.5rem; }
.meta { color: %[5]s; font-size: 0.9rem; margin-top: 0; }
.keywords { display: flex; flex-wrap: wrap; gap: 0.5rem; }
.keyword { background: %[4]s; border-radius: 1rem; padding: 0.2rem 0.8rem; font-size: 0.9rem; }
.note, .card, .message { background: %[4]s; border-radius: 0.5rem; padding: 0.75rem 1rem; margin: 0.75rem 0; }
.card .question { font-weight: 600; margin: 0 0 0.5rem; }
.card .answer { margin: 0; }
.message.user { border-left: 3px solid %[3]s; }
.message .role { font-weight: 600; color: %[3]s; margin: 0 0 0.4rem; }
.message time { color: %[5]s; font-weight: 400; font-size: 0.85rem; }
footer { color: %[5]s; font-size: 0.85rem; margin-top: 2.5rem; text-align: center; }
`, bg, fg, accent, panel, muted)
}
