// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search provides full-text search over a document's notes
// and chat history.
//
// The index lives in memory only and is rebuilt whenever the active
// document changes. Nothing is written to disk: the backend stays the
// single source of truth and the index is a throwaway view of it.
package search

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/docentlabs/docent/internal/model"
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,          -- note, message
    ref TEXT NOT NULL,           -- note ID or message ID
    title TEXT,
    body TEXT NOT NULL,
    created_at INTEGER           -- unix seconds, 0 when unknown
);

CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
    title,
    body,
    content='entries',
    content_rowid='id',
    tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS entries_ai AFTER INSERT ON entries BEGIN
    INSERT INTO entries_fts(rowid, title, body)
    VALUES (new.id, new.title, new.body);
END;

CREATE TRIGGER IF NOT EXISTS entries_ad AFTER DELETE ON entries BEGIN
    DELETE FROM entries_fts WHERE rowid = old.id;
END;
`

// =============================================================================
// TYPES
// =============================================================================

// Kind identifies where an indexed entry came from.
type Kind string

const (
	KindNote    Kind = "note"
	KindMessage Kind = "message"
)

// Entry is one indexable piece of content.
type Entry struct {
	Kind  Kind
	Ref   string // source ID (note or message)
	Title string
	Body  string
	When  time.Time
}

// Result is one search hit with a highlighted snippet.
type Result struct {
	Entry
	Snippet string
}

// Index is an in-memory full-text index scoped to one document.
type Index struct {
	mu    sync.Mutex
	db    *sql.DB
	docID string
}

// =============================================================================
// INDEX LIFECYCLE
// =============================================================================

// NewIndex opens an empty in-memory index.
func NewIndex() (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	// An in-memory database exists per connection, so the pool must
	// stay at exactly one.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating search schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.db.Close()
}

// DocumentID returns the document the index currently covers.
func (ix *Index) DocumentID() string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.docID
}

// Rebuild wipes the index and loads entries for a document.
func (ix *Index) Rebuild(docID string, entries []Entry) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return err
	}
	for _, e := range entries {
		if err := insertEntry(tx, e); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	ix.docID = docID
	return nil
}

// Add indexes one more entry, e.g. a chat message as it completes.
func (ix *Index) Add(e Entry) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertEntry(tx, e); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEntry(tx *sql.Tx, e Entry) error {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return nil
	}
	var when int64
	if !e.When.IsZero() {
		when = e.When.Unix()
	}
	_, err := tx.Exec(
		"INSERT INTO entries (kind, ref, title, body, created_at) VALUES (?, ?, ?, ?, ?)",
		string(e.Kind), e.Ref, e.Title, body, when)
	return err
}

// =============================================================================
// SEARCH
// =============================================================================

// Search runs a full-text query and returns ranked hits.
func (ix *Index) Search(query string, limit int) ([]Result, error) {
	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	rows, err := ix.db.Query(`
		SELECT e.kind, e.ref, e.title, e.body, e.created_at,
		       snippet(entries_fts, 1, '>', '<', '...', 12)
		FROM entries_fts fts
		JOIN entries e ON e.id = fts.rowid
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var kind string
		var when int64
		if err := rows.Scan(&kind, &r.Ref, &r.Title, &r.Body, &when, &r.Snippet); err != nil {
			return nil, err
		}
		r.Kind = Kind(kind)
		if when > 0 {
			r.When = time.Unix(when, 0)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// buildFTSQuery turns user input into an FTS5 query. Single terms get
// prefix matching so partial words still hit.
func buildFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = sanitizeTerm(term)
		if term == "" {
			continue
		}
		// Quoting each term neutralizes FTS5 operators in user input.
		quoted = append(quoted, `"`+term+`"*`)
	}
	return strings.Join(quoted, " ")
}

// sanitizeTerm strips FTS5 special characters from a single term.
func sanitizeTerm(term string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '*', '(', ')', '{', '}', '[', ']', ':', '^', '-', '~':
			return -1
		}
		return r
	}, term)
}

// =============================================================================
// ENTRY BUILDERS
// =============================================================================

// EntriesFromNotes converts notes into indexable entries.
func EntriesFromNotes(notes []*model.Note) []Entry {
	entries := make([]Entry, 0, len(notes))
	for _, n := range notes {
		entries = append(entries, Entry{
			Kind:  KindNote,
			Ref:   n.ID,
			Title: n.Title,
			Body:  n.Content,
			When:  n.CreatedAt,
		})
	}
	return entries
}

// EntriesFromMessages converts chat messages into indexable entries.
// Streaming placeholders are skipped.
func EntriesFromMessages(msgs []*model.Message) []Entry {
	entries := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		if m.IsStreaming || m.Content == "" {
			continue
		}
		entries = append(entries, Entry{
			Kind:  KindMessage,
			Ref:   m.ID,
			Title: m.Role.DisplayName(),
			Body:  m.Content,
			When:  m.Timestamp,
		})
	}
	return entries
}
