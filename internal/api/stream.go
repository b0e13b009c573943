// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the docent backend API.
package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// STREAM READER
// =============================================================================

// ssePrefix marks a server-sent-event data line.
var ssePrefix = []byte("data: ")

// StreamReader parses the backend's server-sent-event chat stream. Each
// event is a JSON object carrying one of three shapes:
//
//	{"chunk": "text fragment"}
//	{"done": true}
//	{"error": "message"}
//
// Fragments are delivered strictly in arrival order.
type StreamReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	chunkCount  int
}

// NewStreamReader creates a stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each chunk, in order.
// Blocks until the terminal chunk is delivered, the underlying stream ends,
// or the context is cancelled. A terminal chunk (Done or Err set) is always
// the last callback invocation.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					// The backend always closes with a done or error event.
					// Process returns as soon as one arrives, so reaching
					// EOF here means the stream was cut mid-answer; the
					// caller still gets a terminal chunk to settle on.
					callback(StreamChunk{Err: &ClientError{
						Type:    ErrTypeStream,
						Message: "stream ended before completion",
						Cause:   io.ErrUnexpectedEOF,
					}})
					return nil
				}
				return &ClientError{Type: ErrTypeStream, Message: "stream read failed", Cause: err}
			}

			if chunk != nil {
				callback(*chunk)
				if chunk.Done || chunk.Err != nil {
					return nil
				}
			}
		}
	}
}

// readChunk reads and parses a single SSE event line from the stream.
// Returns (nil, nil) for lines that carry no event (blank keep-alives,
// malformed payloads).
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(bytes.TrimSpace(line)) == 0 {
			return nil, io.EOF
		}
		if len(line) == 0 {
			return nil, err
		}
		// Process the final unterminated line before surfacing EOF
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}
	if !bytes.HasPrefix(line, ssePrefix) {
		return nil, nil
	}
	payload := bytes.TrimPrefix(line, ssePrefix)

	var event struct {
		Chunk string `json:"chunk"`
		Done  bool   `json:"done"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		// Skip malformed lines
		return nil, nil
	}

	if event.Error != "" {
		return &StreamChunk{
			Err: &ClientError{Type: ErrTypeStream, Message: event.Error},
		}, nil
	}

	if event.Chunk != "" {
		s.accumulator.WriteString(event.Chunk)
		s.chunkCount++
	}

	return &StreamChunk{
		Content: event.Chunk,
		Done:    event.Done,
	}, nil
}

// Accumulated returns all content received so far.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}

// ChunkCount returns the number of non-empty fragments received.
func (s *StreamReader) ChunkCount() int {
	return s.chunkCount
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamCallback is called for each chunk received during streaming.
type StreamCallback func(chunk StreamChunk)

// ChatStream sends the full message history and consumes the streamed
// response, invoking the callback synchronously for each chunk in arrival
// order. Returns when the stream terminates or the context is cancelled.
func (c *Client) ChatStream(ctx context.Context, docID string, messages []ChatMessage, callback StreamCallback) error {
	body, err := json.Marshal(ChatRequest{Messages: messages})
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	// No client timeout for streaming; lifetime is governed by ctx.
	streamClient := &http.Client{}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/documents/"+docID+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := streamClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	reader := NewStreamReader(resp.Body)
	return reader.Process(ctx, callback)
}

// ChatStreamChan is the channel variant of ChatStream. The returned channel
// delivers chunks in order and is closed after the terminal chunk. Transport
// errors are delivered as a chunk with Err set.
func (c *Client) ChatStreamChan(ctx context.Context, docID string, messages []ChatMessage) <-chan StreamChunk {
	ch := make(chan StreamChunk)

	go func() {
		defer close(ch)

		err := c.ChatStream(ctx, docID, messages, func(chunk StreamChunk) {
			select {
			case ch <- chunk:
			case <-ctx.Done():
			}
		})

		if err != nil {
			select {
			case ch <- StreamChunk{Err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// StreamAccumulator collects streaming chunks into a full answer. Used by
// callers that want incremental display plus the final text.
type StreamAccumulator struct {
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	content strings.Builder
	done    bool
	err     error
}

// NewStreamAccumulator creates a new accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{}
}

// Add processes a new chunk.
func (a *StreamAccumulator) Add(chunk StreamChunk) {
	if chunk.Err != nil {
		a.err = chunk.Err
		a.done = true
		return
	}
	a.content.WriteString(chunk.Content)
	if chunk.Done {
		a.done = true
	}
}

// Content returns the accumulated content.
func (a *StreamAccumulator) Content() string {
	return a.content.String()
}

// IsDone returns whether the stream has terminated.
func (a *StreamAccumulator) IsDone() bool {
	return a.done
}

// Err returns the stream error, if any.
func (a *StreamAccumulator) Err() error {
	return a.err
}
