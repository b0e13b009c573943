// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the streaming chat view and its turn lifecycle.
//
// # Key Types
//
//   - Model: Bubble Tea model for the chat tab. Holds presentation state
//     only; conversation history lives in the session store.
//   - Controller: drives a chat turn through its phases (sending,
//     streaming, settled, failed) and applies every store mutation for
//     the turn. All handlers run on the Update goroutine.
//   - StreamRunner: consumes the backend SSE stream off the Update loop
//     and delivers fragments via program.Send.
//   - StreamingBuffer: batches fragments so the viewport re-renders at a
//     bounded rate instead of once per token.
//
// # Turn Identity
//
// Every stream message carries the turn counter and document ID it was
// started for. The controller drops any message whose identity does not
// match the current turn and document, so a cancelled or superseded
// stream can never write into a newer conversation.
//
// # Usage
//
//	store := session.NewStore()
//	client := api.NewClient(baseURL)
//	ctrl := chat.NewController(store, client, runner.Launch)
//	view := chat.New(theme, store, ctrl)
package chat
