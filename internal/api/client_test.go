// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the docent backend API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at the given test server.
func newTestClient(ts *httptest.Server) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: ts.URL})
}

// pdfBytes builds a minimal valid-looking PDF payload of the given size.
func pdfBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "%PDF-1.4\n")
	return data
}

// =============================================================================
// UPLOAD VALIDATION TESTS
// =============================================================================

func TestUploadRejectsOversizeBeforeNetwork(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	client := newTestClient(ts)

	// 12 MB against the 10 MB default cap.
	_, err := client.UploadDocument(context.Background(), "big.pdf", pdfBytes(12*1024*1024))
	require.Error(t, err)
	assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "oversize upload must not reach the network")
}

func TestUploadRejectsNonPDFBeforeNetwork(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	client := newTestClient(ts)

	_, err := client.UploadDocument(context.Background(), "notes.txt", []byte("plain text"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "non-PDF upload must not reach the network")
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		maxSize  int64
		wantErr  error
	}{
		{"valid pdf", "doc.pdf", pdfBytes(100), 0, nil},
		{"uppercase extension", "DOC.PDF", pdfBytes(100), 0, nil},
		{"wrong extension", "doc.txt", pdfBytes(100), 0, ErrNotPDF},
		{"missing magic", "doc.pdf", []byte("hello world"), 0, ErrNotPDF},
		{"over custom cap", "doc.pdf", pdfBytes(2048), 1024, ErrFileTooLarge},
		{"at cap exactly", "doc.pdf", pdfBytes(1024), 1024, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.data, tt.maxSize)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUploadEmptyFile(t *testing.T) {
	err := ValidateUpload("doc.pdf", nil, 0)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// =============================================================================
// UPLOAD / DOCUMENT TESTS
// =============================================================================

func TestUploadDocument(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/documents/upload", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "paper.pdf", header.Filename)

		json.NewEncoder(w).Encode(DocumentResponse{
			ID:         "doc_1",
			Filename:   "paper.pdf",
			FileSize:   header.Size,
			PageCount:  3,
			ChunkCount: 12,
		})
	}))
	defer ts.Close()

	client := newTestClient(ts)
	doc, err := client.UploadDocument(context.Background(), "paper.pdf", pdfBytes(4096))
	require.NoError(t, err)
	assert.Equal(t, "doc_1", doc.ID)
	assert.Equal(t, 3, doc.PageCount)
	assert.Greater(t, doc.ChunkCount, 0)
}

func TestListDocuments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/documents", r.URL.Path)
		json.NewEncoder(w).Encode([]DocumentResponse{
			{ID: "doc_1", Filename: "a.pdf"},
			{ID: "doc_2", Filename: "b.pdf"},
		})
	}))
	defer ts.Close()

	docs, err := newTestClient(ts).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc_1", docs[0].ID)
}

func TestDeleteDocumentNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Document not found"})
	}))
	defer ts.Close()

	err := newTestClient(ts).DeleteDocument(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Document not found")
}

// =============================================================================
// CHAT / GENERATION TESTS
// =============================================================================

func TestChatSendsFullHistory(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/documents/doc_1/chat", r.URL.Path)

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 3)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "assistant", req.Messages[1].Role)
		assert.Equal(t, "user", req.Messages[2].Role)

		json.NewEncoder(w).Encode(AnswerResponse{Answer: "42"})
	}))
	defer ts.Close()

	history := []ChatMessage{
		NewUserMessage("first question"),
		NewAssistantMessage("first answer"),
		NewUserMessage("second question"),
	}
	answer, err := newTestClient(ts).Chat(context.Background(), "doc_1", history)
	require.NoError(t, err)
	assert.Equal(t, "42", answer)
}

func TestSummaryPassesTargetLength(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SummaryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 500, req.MaxLength)
		json.NewEncoder(w).Encode(SummaryResponse{Summary: "# Summary\n\nMain points."})
	}))
	defer ts.Close()

	summary, err := newTestClient(ts).Summary(context.Background(), "doc_1", 500)
	require.NoError(t, err)
	assert.Contains(t, summary, "Main points")
}

func TestKeywords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req KeywordsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 15, req.NumKeywords)
		json.NewEncoder(w).Encode(KeywordsResponse{Keywords: []string{"alpha", "beta"}})
	}))
	defer ts.Close()

	keywords, err := newTestClient(ts).Keywords(context.Background(), "doc_1", 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, keywords)
}

func TestGenerateFlashcards(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(FlashcardsGenerateResponse{
			Flashcards: []FlashcardResponse{
				{ID: "fc_1", DocumentID: "doc_1", Question: "Q1", Answer: "A1"},
			},
		})
	}))
	defer ts.Close()

	cards, err := newTestClient(ts).GenerateFlashcards(context.Background(), "doc_1", 10)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q1", cards[0].Question)
}

func TestNoteLifecycle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/documents/doc_1/notes":
			var req NoteCreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(NoteResponse{
				ID: "note_1", DocumentID: "doc_1", Title: req.Title, Content: req.Content,
			})
		case r.Method == http.MethodPut && r.URL.Path == "/api/notes/note_1":
			var req NoteUpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(NoteResponse{
				ID: "note_1", DocumentID: "doc_1", Title: req.Title, Content: req.Content,
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/notes/note_1":
			json.NewEncoder(w).Encode(map[string]string{"message": "Note deleted successfully"})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := newTestClient(ts)
	ctx := context.Background()

	note, err := client.CreateNote(ctx, "doc_1", "Chapter 1", "key ideas")
	require.NoError(t, err)
	assert.Equal(t, "note_1", note.ID)

	note, err = client.UpdateNote(ctx, "note_1", "Chapter 1", "revised ideas")
	require.NoError(t, err)
	assert.Equal(t, "revised ideas", note.Content)

	require.NoError(t, client.DeleteNote(ctx, "note_1"))
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestHealthUnreachable(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://127.0.0.1:1"})

	err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnreachable(err))
}

func TestServerErrorCarriesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Error generating summary: upstream failed"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts).Summary(context.Background(), "doc_1", 500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream failed")
	assert.False(t, IsValidation(err))
}
