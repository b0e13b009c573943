// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// docs.go - Document library command handler for the docent CLI.
//
// CLI: Comprehensive help and examples for all commands
//
// Handles "docent docs" subcommands for listing and deleting documents.
//
// Command: docs [list|delete]
// Short:   Document library management
// Aliases: documents, d
//
// Examples:
//   docent docs list
//   docent docs list --json
//   docent docs delete 3f2a
//   docent docs delete 3f2a --confirm
package cli

import (
	"fmt"
	"os"
)

// HandleDocs handles the "docs" command.
func HandleDocs(args Args) {
	if err := HandleDocsCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleDocsCommand dispatches docs subcommands.
func HandleDocsCommand(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls", "l":
		return handleDocsList(args)
	case "delete", "rm", "del":
		return handleDocsDelete(args, parser)
	default:
		return NewValidationErrorWithExample(
			"subcommand",
			parser.Subcommand(),
			"unknown docs subcommand",
			"docent docs [list|delete]",
		)
	}
}

// handleDocsList lists all uploaded documents.
func handleDocsList(args Args) error {
	client := buildClient(args)
	ctx, cancel := commandContext()
	defer cancel()

	docs, err := client.ListDocuments(ctx)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("docs list", err).Print()
		}
		return WrapError(err, "failed to list documents")
	}

	if args.JSON {
		data := DocListData{Count: len(docs)}
		for _, d := range docs {
			data.Documents = append(data.Documents, DocListEntry{
				ID:        d.ID,
				Filename:  d.Filename,
				FileSize:  d.FileSize,
				PageCount: d.PageCount,
				CreatedAt: d.CreatedAt,
			})
		}
		return NewJSONResponse("docs list", data).Print()
	}

	if len(docs) == 0 {
		fmt.Println(DimStyle.Render("No documents uploaded yet. Try: docent upload FILE"))
		return nil
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Documents (%d)", len(docs))))

	// Short ID, filename, pages, size, uploaded
	fmt.Printf("  %-10s %-40s %6s %10s  %s\n",
		DimStyle.Render("ID"),
		DimStyle.Render("FILENAME"),
		DimStyle.Render("PAGES"),
		DimStyle.Render("SIZE"),
		DimStyle.Render("UPLOADED"))

	for _, d := range docs {
		id := d.ID
		if len(id) > 8 {
			id = id[:8]
		}
		uploaded := d.CreatedAt
		if t := d.CreatedTime(); !t.IsZero() {
			uploaded = t.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-10s %-40s %6d %10s  %s\n",
			HighlightStyle.Render(id),
			truncateString(d.Filename, 40),
			d.PageCount,
			formatBytes(d.FileSize),
			DimStyle.Render(uploaded))
	}
	fmt.Println()

	return nil
}

// handleDocsDelete deletes a document after confirmation.
func handleDocsDelete(args Args, parser *ArgParser) error {
	docID := parser.Positional(1)
	if docID == "" {
		docID = parser.Flag("doc")
	}
	if docID == "" {
		return ErrMissingArgument("document ID", "docent docs delete <id>")
	}

	client := buildClient(args)
	ctx, cancel := commandContext()
	defer cancel()

	doc, err := resolveDocument(ctx, client, docID)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("docs delete", err).Print()
		}
		return err
	}

	details := map[string]string{
		"Document": doc.Filename,
		"ID":       doc.ID,
		"Size":     formatBytes(doc.FileSize),
	}
	confirmed, err := RequireConfirmationWithDetails("delete this document", details, ConfirmationOptions{
		ConfirmFlag: parser.BoolFlag("confirm"),
		JSONMode:    args.JSON,
	})
	if err != nil {
		return err
	}
	if !confirmed {
		ShowCancellationMessage()
		return nil
	}

	if err := client.DeleteDocument(ctx, doc.ID); err != nil {
		if args.JSON {
			NewJSONErrorResponse("docs delete", err).Print()
		}
		return NewCommandError("docs", "delete", "backend rejected the request", err)
	}

	if args.JSON {
		return NewJSONResponse("docs delete", map[string]string{"id": doc.ID, "filename": doc.Filename}).Print()
	}

	fmt.Printf("%s Deleted %s\n", SuccessStyle.Render("[OK]"), doc.Filename)
	return nil
}
