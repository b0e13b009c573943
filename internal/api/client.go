// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the docent backend API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a categorized error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeValidation      // rejected client-side before any network call
	ErrTypeUnreachable     // backend not reachable
	ErrTypeTimeout         // request timed out
	ErrTypeNotFound        // document/note/flashcard does not exist
	ErrTypeServer          // backend returned a non-success status
	ErrTypeInvalidResponse // response could not be decoded
	ErrTypeStream          // streaming channel signaled failure mid-stream
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable      = &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable"}
	ErrTimeout          = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrDocumentNotFound = &ClientError{Type: ErrTypeNotFound, Message: "document not found"}
	ErrFileTooLarge     = &ClientError{Type: ErrTypeValidation, Message: "file exceeds maximum upload size"}
	ErrNotPDF           = &ClientError{Type: ErrTypeValidation, Message: "only PDF files are supported"}
)

// IsValidation checks if an error was rejected before any network call.
func IsValidation(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeValidation
	}
	return false
}

// IsUnreachable checks if an error indicates the backend is down.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return errors.Is(err, ErrDocumentNotFound)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// UserMessage extracts a short display string for an error. For
// ClientError values this is the Message without the wrapped cause chain;
// anything else falls back to Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	return err.Error()
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultMaxUploadSize is the upload limit enforced client-side before any
// network call. Matches the backend's 10 MB cap.
const DefaultMaxUploadSize = 10 * 1024 * 1024

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	// Note: uses an explicit IPv4 address instead of localhost to avoid
	// IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for non-streaming requests (default: 60s; generation
	// endpoints can be slow)
	Timeout time.Duration

	// UploadTimeout for document uploads, which include server-side text
	// extraction and indexing (default: 120s)
	UploadTimeout time.Duration

	// MaxUploadSize is the client-side upload limit in bytes (default: 10 MB)
	MaxUploadSize int64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://127.0.0.1:8000",
		Timeout:       60 * time.Second,
		UploadTimeout: 120 * time.Second,
		MaxUploadSize: DefaultMaxUploadSize,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the docent backend. One typed method per
// backend capability; every method takes a context and is independently
// cancelable. The Client holds no cross-call state and is safe for
// concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	if err := client.Health(ctx); err != nil {
//	    log.Fatal("backend not available:", err)
//	}
//	docs, err := client.ListDocuments(ctx)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.UploadTimeout == 0 {
		config.UploadTimeout = 120 * time.Second
	}
	if config.MaxUploadSize == 0 {
		config.MaxUploadSize = DefaultMaxUploadSize
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health verifies that the backend is reachable and healthy.
func (c *Client) Health(ctx context.Context) error {
	var result HealthResponse
	if err := c.getJSON(ctx, "/health", &result); err != nil {
		return err
	}
	if result.Status != "healthy" {
		return &ClientError{
			Type:    ErrTypeServer,
			Message: "backend reported status " + result.Status,
		}
	}
	return nil
}

// =============================================================================
// DOCUMENT OPERATIONS
// =============================================================================

// UploadDocument uploads a PDF to the backend and returns the created
// document record. The file is validated client-side (size cap, .pdf
// extension, %PDF- magic) before any network I/O.
func (c *Client) UploadDocument(ctx context.Context, filename string, data []byte) (*DocumentResponse, error) {
	if err := ValidateUpload(filename, data, c.config.MaxUploadSize); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload body", Cause: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload body", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/documents/upload", &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// Uploads get a longer deadline: the backend extracts and indexes
	// the document before responding.
	uploadClient := &http.Client{Timeout: c.config.UploadTimeout}
	resp, err := uploadClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var result DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// ListDocuments retrieves all uploaded documents.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentResponse, error) {
	var result []DocumentResponse
	if err := c.getJSON(ctx, "/api/documents", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteDocument removes a document. The backend cascades the delete to the
// document's notes and flashcards.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/documents/"+docID, nil, nil)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Ask sends a single question about a document and returns the answer
// (non-streaming, no history).
func (c *Client) Ask(ctx context.Context, docID string, question string) (string, error) {
	var result AnswerResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/"+docID+"/ask",
		QuestionRequest{Question: question}, &result)
	if err != nil {
		return "", err
	}
	return result.Answer, nil
}

// Chat sends the full message history and returns one assistant answer
// (non-streaming variant).
func (c *Client) Chat(ctx context.Context, docID string, messages []ChatMessage) (string, error) {
	var result AnswerResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/"+docID+"/chat",
		ChatRequest{Messages: messages}, &result)
	if err != nil {
		return "", err
	}
	return result.Answer, nil
}

// Suggestions fetches follow-up question suggestions for the current
// history. Best-effort on the caller's side: failures just mean no
// suggestions.
func (c *Client) Suggestions(ctx context.Context, docID string, messages []ChatMessage) ([]string, error) {
	var result SuggestionsResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/"+docID+"/suggestions",
		ChatRequest{Messages: messages}, &result)
	if err != nil {
		return nil, err
	}
	return result.Suggestions, nil
}

// =============================================================================
// GENERATION OPERATIONS
// =============================================================================

// Summary generates a summary of the document with a target word count.
// Regenerating replaces the prior summary server-side as well.
func (c *Client) Summary(ctx context.Context, docID string, maxLength int) (string, error) {
	var result SummaryResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/"+docID+"/summary",
		SummaryRequest{MaxLength: maxLength}, &result)
	if err != nil {
		return "", err
	}
	return result.Summary, nil
}

// Keywords extracts up to count keywords from the document.
func (c *Client) Keywords(ctx context.Context, docID string, count int) ([]string, error) {
	var result KeywordsResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/"+docID+"/keywords",
		KeywordsRequest{NumKeywords: count}, &result)
	if err != nil {
		return nil, err
	}
	return result.Keywords, nil
}

// GenerateFlashcards generates a batch of flashcards for the document and
// returns the persisted cards.
func (c *Client) GenerateFlashcards(ctx context.Context, docID string, count int) ([]FlashcardResponse, error) {
	var result FlashcardsGenerateResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/"+docID+"/flashcards/generate",
		FlashcardsRequest{NumCards: count}, &result)
	if err != nil {
		return nil, err
	}
	return result.Flashcards, nil
}

// ListFlashcards retrieves the persisted flashcards for a document.
func (c *Client) ListFlashcards(ctx context.Context, docID string) ([]FlashcardResponse, error) {
	var result []FlashcardResponse
	if err := c.getJSON(ctx, "/api/documents/"+docID+"/flashcards", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteFlashcard removes one flashcard by ID.
func (c *Client) DeleteFlashcard(ctx context.Context, flashcardID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/flashcards/"+flashcardID, nil, nil)
}

// =============================================================================
// NOTE OPERATIONS
// =============================================================================

// ListNotes retrieves all notes for a document.
func (c *Client) ListNotes(ctx context.Context, docID string) ([]NoteResponse, error) {
	var result []NoteResponse
	if err := c.getJSON(ctx, "/api/documents/"+docID+"/notes", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateNote creates a note attached to a document.
func (c *Client) CreateNote(ctx context.Context, docID string, title, content string) (*NoteResponse, error) {
	var result NoteResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/documents/"+docID+"/notes",
		NoteCreateRequest{Title: title, Content: content}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateNote updates an existing note.
func (c *Client) UpdateNote(ctx context.Context, noteID string, title, content string) (*NoteResponse, error) {
	var result NoteResponse
	err := c.doJSON(ctx, http.MethodPut, "/api/notes/"+noteID,
		NoteUpdateRequest{Title: title, Content: content}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteNote removes one note by ID.
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/notes/"+noteID, nil, nil)
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// doJSON performs a request with an optional JSON body and decodes the JSON
// response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// transportError maps a transport-level failure to a categorized error.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeUnknown, Message: "request canceled", Cause: err}
	}
	return &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable", Cause: err}
}

// statusError maps a non-success HTTP status to a categorized error,
// preferring the backend's own detail message when present.
func statusError(resp *http.Response) error {
	errType := ErrTypeServer
	if resp.StatusCode == http.StatusNotFound {
		errType = ErrTypeNotFound
	}

	var detail apiError
	if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
		return &ClientError{Type: errType, Message: detail.Detail}
	}
	return &ClientError{Type: errType, Message: "request failed: " + resp.Status}
}
