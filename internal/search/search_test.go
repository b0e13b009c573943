// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"testing"
	"time"

	"github.com/docentlabs/docent/internal/model"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func seedEntries() []Entry {
	return []Entry{
		{Kind: KindNote, Ref: "n1", Title: "Methodology", Body: "The study used a randomized controlled trial."},
		{Kind: KindNote, Ref: "n2", Title: "Results", Body: "Sample size was forty participants."},
		{Kind: KindMessage, Ref: "m1", Title: "You", Body: "What does the conclusion say about bias?"},
		{Kind: KindMessage, Ref: "m2", Title: "Assistant", Body: "The authors acknowledge selection bias in recruitment."},
	}
}

func TestRebuildAndSearch(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild("doc-1", seedEntries()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if ix.DocumentID() != "doc-1" {
		t.Errorf("DocumentID = %q, want doc-1", ix.DocumentID())
	}

	results, err := ix.Search("bias", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Kind != KindMessage {
			t.Errorf("result %q kind = %q, want message", r.Ref, r.Kind)
		}
		if r.Snippet == "" {
			t.Errorf("result %q has empty snippet", r.Ref)
		}
	}
}

func TestSearchPrefixMatch(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild("doc-1", seedEntries()); err != nil {
		t.Fatal(err)
	}

	results, err := ix.Search("random", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Ref != "n1" {
		t.Errorf("prefix search = %v, want n1", results)
	}
}

func TestSearchLimit(t *testing.T) {
	ix := newTestIndex(t)
	entries := []Entry{
		{Kind: KindNote, Ref: "a", Body: "alpha topic"},
		{Kind: KindNote, Ref: "b", Body: "alpha topic again"},
		{Kind: KindNote, Ref: "c", Body: "alpha topic once more"},
	}
	if err := ix.Rebuild("doc-1", entries); err != nil {
		t.Fatal(err)
	}

	results, err := ix.Search("alpha", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want limit of 2", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild("doc-1", seedEntries()); err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"", "   ", `"*():`} {
		results, err := ix.Search(q, 10)
		if err != nil {
			t.Errorf("Search(%q): %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) = %d results, want 0", q, len(results))
		}
	}
}

func TestSearchOperatorInjection(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild("doc-1", seedEntries()); err != nil {
		t.Fatal(err)
	}

	// FTS5 operators in user input must not cause query errors.
	for _, q := range []string{"bias OR", "NOT bias", `bias"`, "bias(", "study -trial"} {
		if _, err := ix.Search(q, 10); err != nil {
			t.Errorf("Search(%q): %v", q, err)
		}
	}
}

func TestRebuildReplacesContent(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild("doc-1", seedEntries()); err != nil {
		t.Fatal(err)
	}
	if err := ix.Rebuild("doc-2", []Entry{
		{Kind: KindNote, Ref: "x", Body: "entirely new content"},
	}); err != nil {
		t.Fatal(err)
	}

	results, err := ix.Search("bias", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("old content still indexed after rebuild: %v", results)
	}

	results, err = ix.Search("entirely", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("new content not indexed: %v", results)
	}
}

func TestAdd(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild("doc-1", nil); err != nil {
		t.Fatal(err)
	}
	if err := ix.Add(Entry{Kind: KindMessage, Ref: "m9", Body: "incremental finding"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := ix.Search("incremental", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Ref != "m9" {
		t.Errorf("Add not searchable: %v", results)
	}
}

func TestAddSkipsEmptyBody(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Add(Entry{Kind: KindNote, Ref: "e", Body: "   "}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	results, err := ix.Search("e", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("empty entry was indexed: %v", results)
	}
}

func TestEntryBuilders(t *testing.T) {
	notes := []*model.Note{
		{ID: "n1", Title: "T", Content: "body", CreatedAt: time.Now()},
	}
	entries := EntriesFromNotes(notes)
	if len(entries) != 1 || entries[0].Kind != KindNote || entries[0].Ref != "n1" {
		t.Errorf("EntriesFromNotes = %v", entries)
	}

	msgs := []*model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "question"},
		{ID: "m2", Role: model.RoleAssistant, Content: "", IsStreaming: true},
	}
	entries = EntriesFromMessages(msgs)
	if len(entries) != 1 || entries[0].Ref != "m1" {
		t.Errorf("EntriesFromMessages should skip streaming placeholders, got %v", entries)
	}
}
