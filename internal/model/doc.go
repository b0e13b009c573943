// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the client-side data structures for docent.
//
// The entities mirror what the backend persists: Document (one uploaded PDF
// and its derived metadata), Message (one chat turn half), Note, and
// Flashcard. Summary and KeywordSet hold generated per-document results.
// Deck is transient flashcard navigation state.
//
// Message supports incremental streaming accumulation: an assistant message
// is created in streaming mode, fragments are appended as they arrive, and
// FinalizeStream merges them into the final content. All other entities are
// immutable on the client; the server is the source of truth.
package model
