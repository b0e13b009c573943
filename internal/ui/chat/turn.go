// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements the turn state machine. A turn moves
// idle -> sending -> streaming -> settled; errors land in failed. The
// monotonically increasing turn counter plus the document ID stamped on
// every stream message is what keeps a slow or cancelled stream from ever
// mutating a newer turn or a different document's history.
package chat

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
)

// =============================================================================
// TURN PHASES
// =============================================================================

// Phase is the lifecycle state of the current chat turn.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseStreaming
	PhaseSettled
	PhaseFailed
)

// String returns the display name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseStreaming:
		return "streaming"
	case PhaseSettled:
		return "settled"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// STREAM REQUEST
// =============================================================================

// StreamRequest describes one turn's streaming call. The launcher runs it
// off the Update loop and reports back through Stream*Msg values.
type StreamRequest struct {
	Turn       uint64
	DocumentID string
	History    []api.ChatMessage
}

// Launcher starts the network side of a turn. Production wiring uses
// StreamRunner; tests substitute a recorder.
type Launcher func(req StreamRequest)

// =============================================================================
// CANCEL MANAGEMENT (THREAD-SAFE)
// =============================================================================

// cancelManager guards the in-flight stream's cancel function. The Update
// loop and the streaming goroutine both touch it, so it holds its own
// mutex. Must be kept as a pointer so Bubble Tea model copies share it.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

func (cm *cancelManager) set(fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cancelFunc = fn
}

// cancel invokes and clears the stored cancel function. Safe to call
// multiple times or with nothing set.
func (cm *cancelManager) cancel() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
		cm.cancelFunc = nil
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the chat turn lifecycle. It mediates between the session
// store (the single source of truth for history) and the stream launcher,
// and is the only place that mutates chat history during a turn.
type Controller struct {
	store     *session.Store
	client    *api.Client
	launch    Launcher
	buffer    *StreamingBuffer
	cancelMgr *cancelManager

	phase   Phase
	turn    uint64
	turnDoc string
	current *model.Message // assistant message being streamed, nil outside a turn
}

// NewController creates a chat controller bound to a store and client.
// The launcher may be nil for a controller that never starts real turns
// (the launch is then a no-op, useful in tests that drive messages by
// hand).
func NewController(store *session.Store, client *api.Client, launch Launcher) *Controller {
	return &Controller{
		store:     store,
		client:    client,
		launch:    launch,
		buffer:    NewStreamingBuffer(),
		cancelMgr: newCancelManager(),
		phase:     PhaseIdle,
	}
}

// Phase returns the current turn phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Turn returns the current turn counter.
func (c *Controller) Turn() uint64 {
	return c.turn
}

// Busy reports whether a turn is in flight.
func (c *Controller) Busy() bool {
	return c.phase == PhaseSending || c.phase == PhaseStreaming
}

// SetCancelFunc stores the cancel function for the in-flight stream.
func (c *Controller) SetCancelFunc(fn context.CancelFunc) {
	c.cancelMgr.set(fn)
}

// =============================================================================
// TURN OPERATIONS
// =============================================================================

// StartTurn submits a user question. It appends the user message, clears
// stale suggestions, and launches the stream. Returns false when the turn
// cannot start (no active document, empty question, or a turn already in
// flight).
func (c *Controller) StartTurn(question string) bool {
	if question == "" || c.Busy() {
		return false
	}
	docID := c.store.CurrentDocumentID()
	if docID == "" {
		return false
	}

	c.store.AddMessage(model.NewUserMessage(question))
	c.store.ClearSuggestions()
	return c.submit(docID)
}

// Regenerate re-runs the last user question. The trailing assistant reply
// is dropped from history first, so regeneration replaces rather than
// appends; running it twice in a row yields the same history shape.
func (c *Controller) Regenerate() bool {
	if c.Busy() {
		return false
	}
	docID := c.store.CurrentDocumentID()
	if docID == "" {
		return false
	}

	history := c.store.TruncateToLastUser()
	if len(history) == 0 {
		return false
	}

	c.store.ClearSuggestions()
	return c.submit(docID)
}

// submit starts the stream for whatever the store's history currently is.
func (c *Controller) submit(docID string) bool {
	history := c.chatHistory()
	if len(history) == 0 {
		return false
	}

	c.turn++
	c.turnDoc = docID
	c.phase = PhaseSending
	c.current = nil
	c.buffer.Reset()
	c.store.SetLoadingChat(true)

	if c.launch != nil {
		c.launch(StreamRequest{
			Turn:       c.turn,
			DocumentID: docID,
			History:    history,
		})
	}
	return true
}

// Cancel aborts the in-flight turn. Partial content already rendered is
// kept and finalized; the turn counter is bumped so anything the dying
// stream still sends is discarded as stale.
func (c *Controller) Cancel() {
	if !c.Busy() {
		return
	}

	c.cancelMgr.cancel()
	c.flushInto(c.current)
	if c.current != nil {
		c.current.FinalizeStream()
	}
	c.current = nil
	c.turn++ // orphan any in-flight messages
	c.phase = PhaseIdle
	c.store.SetLoadingChat(false)
}

// ResetForDocument aborts any in-flight turn and clears turn state. Called
// on document switch, after the store's own ResetDocumentState.
func (c *Controller) ResetForDocument() {
	c.cancelMgr.cancel()
	c.buffer.Reset()
	c.current = nil
	c.turn++
	c.turnDoc = ""
	c.phase = PhaseIdle
}

// =============================================================================
// STREAM MESSAGE HANDLERS
// =============================================================================

// stale reports whether a stream message belongs to a dead turn. Both the
// turn counter and the originating document must match the present state.
func (c *Controller) stale(turn uint64, docID string) bool {
	return turn != c.turn || docID != c.store.CurrentDocumentID()
}

// HandleStart processes StreamStartMsg.
func (c *Controller) HandleStart(msg StreamStartMsg) tea.Cmd {
	if c.stale(msg.Turn, msg.DocumentID) {
		return nil
	}
	c.phase = PhaseStreaming
	return nil
}

// HandleFragment processes one streamed fragment. Fragments are batched
// in the StreamingBuffer; the returned tick command drives flushing at a
// capped frame rate.
func (c *Controller) HandleFragment(msg StreamFragmentMsg) tea.Cmd {
	if c.stale(msg.Turn, msg.DocumentID) {
		return nil
	}

	if c.current == nil {
		c.current = model.NewAssistantMessage()
		c.store.AddMessage(c.current)
	}
	c.phase = PhaseStreaming
	c.buffer.Write(msg.Fragment)

	if msg.IsFirst {
		return streamTickCmd()
	}
	return nil
}

// HandleTick flushes the fragment batch into the streaming message. It
// reschedules itself while the stream is live.
func (c *Controller) HandleTick(StreamTickMsg) tea.Cmd {
	if c.phase != PhaseStreaming {
		return nil
	}
	c.flushInto(c.current)
	return streamTickCmd()
}

// HandleComplete settles the turn and kicks off the best-effort
// suggestions fetch.
func (c *Controller) HandleComplete(msg StreamCompleteMsg) tea.Cmd {
	if c.stale(msg.Turn, msg.DocumentID) {
		return nil
	}

	c.flushInto(c.current)
	if c.current != nil {
		c.current.FinalizeStream()
	}
	c.current = nil
	c.phase = PhaseSettled
	c.store.SetLoadingChat(false)

	return c.fetchSuggestionsCmd(msg.Turn, msg.DocumentID)
}

// HandleError fails the turn. History is restored to end at the last user
// message, so a failed stream leaves no partial assistant reply behind and
// the question can be retried as-is.
func (c *Controller) HandleError(msg StreamErrorMsg) tea.Cmd {
	if c.stale(msg.Turn, msg.DocumentID) {
		return nil
	}

	c.buffer.Reset()
	c.current = nil
	c.store.TruncateToLastUser()
	c.phase = PhaseFailed
	c.store.SetLoadingChat(false)

	return func() tea.Msg {
		return ErrorMsg{Title: "Chat failed", Message: api.UserMessage(msg.Err)}
	}
}

// HandleSuggestions stores follow-up suggestions for the settled turn.
// Errors are dropped: suggestions are decoration, not state.
func (c *Controller) HandleSuggestions(msg SuggestionsMsg) tea.Cmd {
	if msg.Err != nil || c.stale(msg.Turn, msg.DocumentID) {
		return nil
	}
	c.store.SetSuggestions(msg.Suggestions)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// flushInto force-flushes any buffered fragments into msg.
func (c *Controller) flushInto(msg *model.Message) {
	content, ok := c.buffer.ForceFlush()
	if ok && msg != nil {
		msg.AppendFragment(content)
	}
}

// chatHistory converts the store's history to wire format.
func (c *Controller) chatHistory() []api.ChatMessage {
	entries := c.store.ChatHistory()
	history := make([]api.ChatMessage, 0, len(entries))
	for _, e := range entries {
		history = append(history, api.ChatMessage{Role: e.Role, Content: e.Content})
	}
	return history
}

// fetchSuggestionsCmd requests follow-up suggestions for a settled turn.
func (c *Controller) fetchSuggestionsCmd(turn uint64, docID string) tea.Cmd {
	if c.client == nil {
		return nil
	}
	history := c.chatHistory()
	return func() tea.Msg {
		suggestions, err := c.client.Suggestions(context.Background(), docID, history)
		return SuggestionsMsg{
			Turn:        turn,
			DocumentID:  docID,
			Suggestions: suggestions,
			Err:         err,
		}
	}
}
