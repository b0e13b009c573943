// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// upload.go - Upload command handler for the docent CLI.
//
// CLI: Comprehensive help and examples for all commands
//
// Handles "docent upload", which validates a PDF and sends it to the
// backend for text extraction and indexing.
//
// Command: upload FILE
// Short:   Upload a PDF
// Aliases: up
//
// Examples:
//   docent upload thesis.pdf
//   docent upload ~/papers/attention.pdf --json
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docentlabs/docent/internal/config"
)

// HandleUpload handles the "upload" command.
func HandleUpload(args Args) {
	if err := HandleUploadCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// ValidateUpload checks a file before reading it into memory.
// Only PDFs within the configured size limit are accepted.
func ValidateUpload(path string, maxBytes int64) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewValidationErrorWithExample(
			"file",
			path,
			"only PDF files are supported",
			"docent upload paper.pdf",
		)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewNotFoundError("file", path)
		}
		return WrapError(err, "cannot access file")
	}

	if info.IsDir() {
		return NewValidationError("file", path, "path is a directory")
	}

	if info.Size() == 0 {
		return NewValidationError("file", path, "file is empty")
	}

	if info.Size() > maxBytes {
		return NewValidationError("file", path,
			fmt.Sprintf("file is %s, limit is %s", formatBytes(info.Size()), formatBytes(maxBytes)))
	}

	return nil
}

// HandleUploadCommand validates and uploads a PDF.
func HandleUploadCommand(args Args) error {
	if args.File == "" {
		err := ErrMissingArgument("file", "docent upload <file.pdf>")
		if args.JSON {
			NewJSONErrorResponse("upload", err).Print()
		}
		return err
	}

	cfg := config.Global()
	maxBytes := int64(cfg.Backend.MaxUploadMB) * 1024 * 1024

	if err := ValidateUpload(args.File, maxBytes); err != nil {
		if args.JSON {
			NewJSONErrorResponse("upload", err).Print()
		}
		return err
	}

	data, err := os.ReadFile(args.File)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("upload", err).Print()
		}
		return WrapError(err, "failed to read file")
	}

	client := buildClient(args)

	// Uploads run the backend's extraction pipeline, so use the longer timeout
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Backend.UploadTimeoutSecs)*time.Second)
	defer cancel()

	if !args.Quiet && !args.JSON {
		fmt.Fprintf(os.Stderr, "%s Uploading %s (%s)...\n",
			InfoStyle.Render("[+]"),
			filepath.Base(args.File),
			formatBytes(int64(len(data))))
	}

	start := time.Now()
	doc, err := client.UploadDocument(ctx, filepath.Base(args.File), data)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("upload", err).Print()
		}
		return NewCommandError("upload", "send", "backend rejected the upload", err)
	}

	if args.JSON {
		return NewJSONResponse("upload", UploadData{
			ID:        doc.ID,
			Filename:  doc.Filename,
			FileSize:  doc.FileSize,
			PageCount: doc.PageCount,
		}).Print()
	}

	fmt.Printf("%s Uploaded %s\n", SuccessStyle.Render("[OK]"), doc.Filename)
	fmt.Printf("  %s %s\n", RenderLabel("ID:"), HighlightStyle.Render(doc.ID))
	fmt.Printf("  %s %d\n", RenderLabel("Pages:"), doc.PageCount)
	fmt.Printf("  %s %s\n", RenderLabel("Processed in:"), formatDurationShort(time.Since(start)))

	return nil
}
