// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the client-side session store.
//
// This package implements the single authoritative container for all
// document-scoped state: the known document set, the active document, the
// chat history, and the derived feature state (summary, keywords,
// flashcards, notes, suggestions) plus per-feature loading flags.
//
// # Key Types
//
//   - Store: Mutex-protected state container with synchronous observers
//   - Loading: Aggregated per-feature loading flags
//   - Field: Identifies which part of the store a mutation touched
//
// # Usage
//
// Create a store and subscribe to changes:
//
//	store := session.NewStore()
//	store.Subscribe(func(changed session.Field) {
//	    // Re-render the affected panel
//	})
//
// Switch the active document:
//
//	store.SetCurrentDocument(doc)
//	store.ResetDocumentState()
//
// # Guarantees
//
// Mutations are total: they never fail and perform no I/O. Slice fields are
// replaced on mutation, never modified in place, so observers can compare
// slice headers for cheap change detection. Nothing in this package
// persists across process restarts.
package session
