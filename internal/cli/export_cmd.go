// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/config"
	"github.com/docentlabs/docent/internal/export"
	"github.com/docentlabs/docent/internal/model"
)

// ExportData is the JSON payload for the export command.
type ExportData struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Kind     string `json:"kind"`
	Document string `json:"document"`
}

// HandleExport processes the export command and exits on error.
func HandleExport(args Args) {
	if err := HandleExportCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleExportCommand fetches study material from the backend and
// writes it to a local file. Subcommands select what goes into the
// bundle; "all" grabs everything the backend has for the document.
func HandleExportCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	kind := parser.Subcommand()
	if kind == "" {
		kind = "all"
	}

	switch kind {
	case "summary", "keywords", "notes", "flashcards", "all":
		// handled below
	case "chat":
		// ERROR HANDLING: chat history lives only inside a running
		// session, so there is nothing to fetch headlessly.
		return NewCommandError("export", "chat",
			"chat transcripts only exist during a session; use /export inside 'docent chat'", nil)
	default:
		return NewValidationErrorWithExample("subcommand", kind,
			"unknown export target", "docent export summary")
	}

	cfg := config.Global()

	format := parser.FlagOrDefault("format", cfg.Export.DefaultFormat)
	outDir := parser.FlagOrDefault("output", cfg.Export.Dir)
	if outDir == "" {
		outDir = "."
	}
	outDir, err := ValidateOutputPath(outDir)
	if err != nil {
		return err
	}

	client := buildClient(args)
	ctx, cancel := commandContext()
	defer cancel()

	docID := parser.Flag("doc")
	if docID == "" {
		docID = args.Document
	}
	doc, err := resolveDocument(ctx, client, docID)
	if err != nil {
		return err
	}

	bundle := &export.Bundle{
		Kind: kind,
		Document: &model.Document{
			ID:         doc.ID,
			Filename:   doc.Filename,
			FileSize:   doc.FileSize,
			PageCount:  doc.PageCount,
			ChunkCount: doc.ChunkCount,
			CreatedAt:  doc.CreatedTime(),
		},
		ExportedAt: time.Now(),
	}

	if err := fillBundle(args, client, bundle, kind, doc.ID); err != nil {
		return err
	}

	opts := &export.Options{
		OutputDir:       outDir,
		IncludeMetadata: true,
		Theme:           cfg.UI.Theme,
	}
	path, err := export.ExportToFile(bundle, format, opts)
	if err != nil {
		return NewCommandError("export", kind, err.Error(), err)
	}

	if args.JSON {
		return NewJSONResponse("export", ExportData{
			Path:     path,
			Format:   format,
			Kind:     kind,
			Document: doc.Filename,
		}).Print()
	}

	fmt.Printf("%s Exported %s to %s\n",
		SuccessStyle.Render("[OK]"), kind, HighlightStyle.Render(path))
	return nil
}

// fillBundle populates the requested sections from the backend. Each
// fetch gets its own timeout so one slow endpoint does not starve the
// rest of an "all" export.
func fillBundle(args Args, client *api.Client, bundle *export.Bundle, kind, docID string) error {
	cfg := config.Global()

	fetch := func(name string, fn func() error) error {
		if !args.Quiet && !args.JSON {
			StderrPrint("%s", DimStyle.Render(fmt.Sprintf("[+] Fetching %s...\n", name)))
		}
		if err := fn(); err != nil {
			return NewCommandError("export", name, "backend request failed", err)
		}
		return nil
	}

	if kind == "summary" || kind == "all" {
		err := fetch("summary", func() error {
			ctx, cancel := commandContext()
			defer cancel()
			text, err := client.Summary(ctx, docID, cfg.Features.SummaryLength)
			if err != nil {
				return err
			}
			bundle.Summary = &model.Summary{
				Text:       text,
				TargetLen:  cfg.Features.SummaryLength,
				DocumentID: docID,
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if kind == "keywords" || kind == "all" {
		err := fetch("keywords", func() error {
			ctx, cancel := commandContext()
			defer cancel()
			words, err := client.Keywords(ctx, docID, cfg.Features.KeywordCount)
			if err != nil {
				return err
			}
			bundle.Keywords = &model.KeywordSet{Keywords: words, DocumentID: docID}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if kind == "notes" || kind == "all" {
		err := fetch("notes", func() error {
			ctx, cancel := commandContext()
			defer cancel()
			notes, err := client.ListNotes(ctx, docID)
			if err != nil {
				return err
			}
			for i := range notes {
				bundle.Notes = append(bundle.Notes, noteToModel(&notes[i]))
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if kind == "flashcards" || kind == "all" {
		err := fetch("flashcards", func() error {
			ctx, cancel := commandContext()
			defer cancel()
			cards, err := client.ListFlashcards(ctx, docID)
			if err != nil {
				return err
			}
			for _, c := range cards {
				bundle.Flashcards = append(bundle.Flashcards, &model.Flashcard{
					ID:         c.ID,
					DocumentID: c.DocumentID,
					Question:   c.Question,
					Answer:     c.Answer,
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	// An "all" export of a fresh document can legitimately come back
	// with nothing generated yet.
	if bundle.IsEmpty() {
		return NewNotFoundError(kind+" content", docID)
	}
	return nil
}

func noteToModel(n *api.NoteResponse) *model.Note {
	return &model.Note{
		ID:         n.ID,
		DocumentID: n.DocumentID,
		Title:      n.Title,
		Content:    n.Content,
		CreatedAt:  parseWireTime(n.CreatedAt),
		UpdatedAt:  parseWireTime(n.UpdatedAt),
	}
}

func parseWireTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
