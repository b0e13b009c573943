// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the docent backend API.
package api

import "time"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatMessage represents one chat message on the wire.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// NewUserMessage creates a user chat message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewAssistantMessage creates an assistant chat message.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// QuestionRequest is the body for POST /api/documents/{id}/ask.
type QuestionRequest struct {
	Question string `json:"question"`
}

// ChatRequest is the body for the chat and chat/stream endpoints. The
// backend is stateless: the full history is sent on every call.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// SummaryRequest is the body for POST /api/documents/{id}/summary.
type SummaryRequest struct {
	MaxLength int `json:"max_length"`
}

// KeywordsRequest is the body for POST /api/documents/{id}/keywords.
type KeywordsRequest struct {
	NumKeywords int `json:"num_keywords"`
}

// FlashcardsRequest is the body for POST /api/documents/{id}/flashcards/generate.
type FlashcardsRequest struct {
	NumCards int `json:"num_cards"`
}

// NoteCreateRequest is the body for POST /api/documents/{id}/notes.
type NoteCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteUpdateRequest is the body for PUT /api/notes/{id}.
type NoteUpdateRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// DocumentResponse is the wire shape of one document record.
type DocumentResponse struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	PageCount  int    `json:"page_count"`
	ChunkCount int    `json:"chunk_count"`
	CreatedAt  string `json:"created_at,omitempty"` // RFC 3339, may be empty
}

// CreatedTime parses the creation timestamp, falling back to the zero time.
func (d DocumentResponse) CreatedTime() time.Time {
	if d.CreatedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AnswerResponse carries one assistant answer (ask and non-streaming chat).
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// SuggestionsResponse carries follow-up question suggestions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// SummaryResponse carries one generated summary blob.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// KeywordsResponse carries the ordered keyword list.
type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// FlashcardResponse is the wire shape of one flashcard.
type FlashcardResponse struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// FlashcardsGenerateResponse carries a freshly generated batch of cards.
type FlashcardsGenerateResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

// NoteResponse is the wire shape of one note.
type NoteResponse struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// apiError is the backend's error body ({"detail": "..."}).
type apiError struct {
	Detail string `json:"detail"`
}

// =============================================================================
// STREAM TYPES
// =============================================================================

// StreamChunk is one event from the chat stream. Exactly one terminal chunk
// is delivered per stream: either Done is true or Err is non-nil.
type StreamChunk struct {
	Content string // text fragment, may be empty on the terminal chunk
	Done    bool   // normal end of stream
	Err     error  // stream error signal
}
