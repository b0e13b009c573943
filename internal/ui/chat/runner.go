// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docentlabs/docent/internal/api"
)

// =============================================================================
// PROGRAM RUNNER FOR STREAMING
// =============================================================================

// StreamRunner executes streaming chat calls for a Bubble Tea program.
// It runs outside the Update loop and reports progress with program.Send,
// stamping every message with the turn and document so the controller can
// discard stale deliveries.
type StreamRunner struct {
	program *tea.Program
	client  *api.Client
}

// NewStreamRunner creates a new stream runner.
func NewStreamRunner(program *tea.Program, client *api.Client) *StreamRunner {
	return &StreamRunner{
		program: program,
		client:  client,
	}
}

// Launch starts req's stream on a new goroutine. Satisfies Launcher.
func (r *StreamRunner) Launch(req StreamRequest) {
	go r.Run(context.Background(), req)
}

// Run executes one streaming chat call and sends messages to the program.
// It blocks until the stream finishes or ctx is cancelled.
func (r *StreamRunner) Run(ctx context.Context, req StreamRequest) {
	if r.program == nil {
		return
	}
	if r.client == nil {
		r.program.Send(StreamErrorMsg{
			Turn:       req.Turn,
			DocumentID: req.DocumentID,
			Err:        api.ErrUnreachable,
		})
		return
	}

	r.program.Send(NewStreamStartMsg(req.Turn, req.DocumentID))

	start := time.Now()
	isFirst := true
	failed := false

	err := r.client.ChatStream(ctx, req.DocumentID, req.History, func(chunk api.StreamChunk) {
		if chunk.Err != nil {
			failed = true
			r.program.Send(StreamErrorMsg{
				Turn:       req.Turn,
				DocumentID: req.DocumentID,
				Err:        chunk.Err,
			})
			return
		}

		if chunk.Content != "" {
			r.program.Send(StreamFragmentMsg{
				Turn:       req.Turn,
				DocumentID: req.DocumentID,
				Fragment:   chunk.Content,
				IsFirst:    isFirst,
			})
			isFirst = false
		}

		if chunk.Done {
			r.program.Send(StreamCompleteMsg{
				Turn:       req.Turn,
				DocumentID: req.DocumentID,
				Elapsed:    time.Since(start),
			})
		}
	})

	// Transport failures end the stream without a terminal chunk.
	if err != nil && !failed {
		r.program.Send(StreamErrorMsg{
			Turn:       req.Turn,
			DocumentID: req.DocumentID,
			Err:        err,
		})
	}
}
