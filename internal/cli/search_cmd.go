// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search_cmd.go - Note search command for the docent CLI.
//
// Handles "docent search QUERY": full-text search over a document's
// notes. Chat history is only searchable inside a running session
// (the /search command in chat), since transcripts never persist.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docentlabs/docent/internal/search"
)

// SearchData is the JSON payload for the search command.
type SearchData struct {
	Query    string        `json:"query"`
	Document string        `json:"document"`
	Results  []SearchEntry `json:"results"`
	Count    int           `json:"count"`
}

// SearchEntry is one hit in JSON output.
type SearchEntry struct {
	Kind    string `json:"kind"`
	Ref     string `json:"ref"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet"`
}

// HandleSearch processes the search command and exits on error.
func HandleSearch(args Args) {
	if err := HandleSearchCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleSearchCommand resolves the document, indexes its notes in
// memory, and runs the query.
func HandleSearchCommand(args Args) error {
	if args.Query == "" {
		return NewValidationErrorWithExample("query", "",
			"no search terms given", "docent search sample size")
	}

	limit := 20
	if s, ok := args.Options["limit"]; ok {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return NewValidationError("--limit", s, "must be a positive integer")
		}
		limit = n
	}

	client := buildClient(args)
	ctx, cancel := commandContext()
	defer cancel()

	doc, err := resolveDocument(ctx, client, args.Document)
	if err != nil {
		return err
	}

	notes, err := client.ListNotes(ctx, doc.ID)
	if err != nil {
		return NewCommandError("search", "notes", "backend request failed", err)
	}

	ix, err := search.NewIndex()
	if err != nil {
		return NewCommandError("search", "index", err.Error(), err)
	}
	defer ix.Close()

	entries := make([]search.Entry, 0, len(notes))
	for i := range notes {
		n := noteToModel(&notes[i])
		entries = append(entries, search.Entry{
			Kind:  search.KindNote,
			Ref:   n.ID,
			Title: n.Title,
			Body:  n.Content,
			When:  n.CreatedAt,
		})
	}
	if err := ix.Rebuild(doc.ID, entries); err != nil {
		return NewCommandError("search", "index", err.Error(), err)
	}

	results, err := ix.Search(args.Query, limit)
	if err != nil {
		return NewCommandError("search", "query", err.Error(), err)
	}

	if args.JSON {
		data := SearchData{
			Query:    args.Query,
			Document: doc.Filename,
			Results:  []SearchEntry{},
			Count:    len(results),
		}
		for _, r := range results {
			data.Results = append(data.Results, SearchEntry{
				Kind:    string(r.Kind),
				Ref:     r.Ref,
				Title:   r.Title,
				Snippet: r.Snippet,
			})
		}
		return NewJSONResponse("search", data).Print()
	}

	displaySearchResults(doc.Filename, args.Query, results)
	return nil
}

func displaySearchResults(filename, query string, results []search.Result) {
	if len(results) == 0 {
		fmt.Printf("No matches for %q in notes of %s.\n",
			query, HighlightStyle.Render(filename))
		return
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Matches in %s", filename)))
	fmt.Println(RenderSeparator())
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%2d. %s %s\n", i+1,
			SectionStyle.Render(title),
			DimStyle.Render("["+string(r.Kind)+"]"))
		fmt.Printf("    %s\n", r.Snippet)
	}
	fmt.Println()
}
