// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat
// interface. Every streaming message carries the turn counter and the
// document ID it was started for; the controller drops anything that does
// not match both, so a slow stream can never land in a newer turn or a
// different document.
package chat

import (
	"time"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that streaming has begun for a turn.
type StreamStartMsg struct {
	Turn       uint64
	DocumentID string
	StartTime  time.Time
}

// StreamFragmentMsg delivers one ordered fragment from the stream.
type StreamFragmentMsg struct {
	Turn       uint64
	DocumentID string
	Fragment   string
	IsFirst    bool // True if this is the first fragment of the turn
}

// StreamCompleteMsg signals that streaming finished cleanly.
type StreamCompleteMsg struct {
	Turn       uint64
	DocumentID string
	Elapsed    time.Duration
}

// StreamErrorMsg signals an error during streaming.
type StreamErrorMsg struct {
	Turn       uint64
	DocumentID string
	Err        error
}

// StreamTickMsg is sent at up to 30fps during streaming so fragment
// batches render smoothly instead of once per network read.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// SUGGESTION MESSAGES
// =============================================================================

// SuggestionsMsg delivers follow-up question suggestions for a settled
// turn. Best effort: Err is silently ignored by the controller.
type SuggestionsMsg struct {
	Turn        uint64
	DocumentID  string
	Suggestions []string
	Err         error
}

// =============================================================================
// INPUT MESSAGES
// =============================================================================

// SubmitInputMsg signals that the user submitted a question.
type SubmitInputMsg struct {
	Content string
}

// RegenerateMsg requests regenerating the last assistant reply.
type RegenerateMsg struct{}

// CancelStreamMsg cancels the in-flight stream (Escape).
type CancelStreamMsg struct{}

// =============================================================================
// UI MESSAGES
// =============================================================================

// ErrorMsg surfaces an error to the user as a toast.
type ErrorMsg struct {
	Title   string
	Message string
}

// NewStreamStartMsg creates a StreamStartMsg stamped with the current time.
func NewStreamStartMsg(turn uint64, documentID string) StreamStartMsg {
	return StreamStartMsg{
		Turn:       turn,
		DocumentID: documentID,
		StartTime:  time.Now(),
	}
}
