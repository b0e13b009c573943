// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the docent backend API.
package api

import (
	"bytes"
	"strings"
)

// pdfMagic is the PDF file signature required at the start of the content.
var pdfMagic = []byte("%PDF-")

// ValidateUpload rejects an upload before any network call. Rules:
//   - the filename must end in .pdf (case-insensitive)
//   - the content must start with the %PDF- signature
//   - the content must not exceed maxSize bytes (0 means the default cap)
//
// Returns a validation-typed *ClientError on rejection.
func ValidateUpload(filename string, data []byte, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	if len(data) == 0 {
		return &ClientError{Type: ErrTypeValidation, Message: "file is empty"}
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return ErrNotPDF
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	if int64(len(data)) > maxSize {
		return ErrFileTooLarge
	}
	return nil
}
