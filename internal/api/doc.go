// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the typed HTTP client for the docent backend.
//
// One method per backend capability: document upload/list/delete, chat
// (non-streaming and streaming), follow-up suggestions, summary, keywords,
// flashcards, and notes. Every method takes a context.Context and is
// independently cancelable; the client holds no cross-call state.
//
// Errors are categorized through ClientError: validation errors are raised
// before any network call, transport and server errors carry the backend's
// detail message when available, and stream errors signal mid-stream
// failure. The streaming chat endpoint is consumed through StreamReader,
// which parses the backend's server-sent-event protocol and guarantees
// in-order fragment delivery with an explicit terminal signal (done vs
// error).
//
// The client never retries; retry policy belongs to the caller.
package api
