// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/docentlabs/docent/internal/model"
)

// JSONExporter renders a bundle as indented JSON for programmatic
// consumption. The envelope is stable: fields are omitted when empty
// rather than renamed between versions.
type JSONExporter struct {
	opts *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{opts: opts}
}

// jsonEnvelope is the serialized shape of a bundle.
type jsonEnvelope struct {
	Kind       string             `json:"kind"`
	ExportedAt time.Time          `json:"exported_at"`
	Document   *model.Document    `json:"document,omitempty"`
	Summary    *model.Summary     `json:"summary,omitempty"`
	Keywords   []string           `json:"keywords,omitempty"`
	Notes      []*model.Note      `json:"notes,omitempty"`
	Flashcards []*model.Flashcard `json:"flashcards,omitempty"`
	Transcript []jsonMessage      `json:"transcript,omitempty"`
}

// jsonMessage flattens a chat message to role/content/timestamp,
// dropping streaming-internal fields.
type jsonMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Export renders the bundle to JSON bytes.
func (e *JSONExporter) Export(b *Bundle) ([]byte, error) {
	env := jsonEnvelope{
		Kind:       b.Kind,
		ExportedAt: b.ExportedAt,
		Document:   b.Document,
		Notes:      b.Notes,
		Flashcards: b.Flashcards,
	}
	if b.Summary != nil && b.Summary.Text != "" {
		env.Summary = b.Summary
	}
	if b.Keywords != nil {
		env.Keywords = b.Keywords.Keywords
	}
	for _, msg := range b.Transcript {
		env.Transcript = append(env.Transcript, jsonMessage{
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	return append(data, '\n'), nil
}

// FileExtension returns "json".
func (e *JSONExporter) FileExtension() string {
	return "json"
}

// MimeType returns the JSON MIME type.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
