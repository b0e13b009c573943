// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package panels implements the feature panels of the TUI: the document
// library, summary, keywords, flashcards, and notes views.
//
// # Structure
//
// Each panel is a self-contained Bubble Tea component over the shared
// session store. Panels never call the backend directly; they return
// commands built by Commands and apply the corresponding result message
// to the store when it arrives.
//
// # Staleness
//
// Result messages carry the document ID they were fetched for. A panel
// drops any result whose document ID no longer matches the store's
// current document, so a slow response from a previous document can
// never land in the current one.
//
// # States
//
// Every feature panel renders exactly one of three states, derived from
// the store: an empty prompt ("press g to generate"), a loading
// indicator, or the populated content.
package panels
