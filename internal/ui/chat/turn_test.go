// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"testing"

	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
)

// newTestController wires a controller to a fresh store with one active
// document and a launcher that records stream requests.
func newTestController(t *testing.T) (*Controller, *session.Store, *[]StreamRequest) {
	t.Helper()

	store := session.NewStore()
	doc := &model.Document{ID: "doc-1", Filename: "paper.pdf"}
	store.SetDocuments([]*model.Document{doc})
	store.SetCurrentDocument(doc)

	var requests []StreamRequest
	ctrl := NewController(store, nil, func(req StreamRequest) {
		requests = append(requests, req)
	})
	return ctrl, store, &requests
}

// drain runs a returned cmd chain enough to deliver buffered fragments.
func settle(ctrl *Controller, turn uint64, docID string) {
	ctrl.HandleComplete(StreamCompleteMsg{Turn: turn, DocumentID: docID})
}

func TestStartTurnRejectsEmptyAndNoDocument(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	if ctrl.StartTurn("") {
		t.Error("empty question should not start a turn")
	}

	store.SetCurrentDocument(nil)
	if ctrl.StartTurn("hello") {
		t.Error("turn should not start without an active document")
	}
	if len(store.Messages()) != 0 {
		t.Error("rejected turn must not touch history")
	}
}

func TestStartTurnLaunchesWithHistory(t *testing.T) {
	ctrl, store, requests := newTestController(t)

	if !ctrl.StartTurn("what is this about?") {
		t.Fatal("StartTurn failed")
	}

	if ctrl.Phase() != PhaseSending {
		t.Errorf("phase = %v, want %v", ctrl.Phase(), PhaseSending)
	}
	if !store.IsLoading().Chat {
		t.Error("chat loading flag not set")
	}
	if len(*requests) != 1 {
		t.Fatalf("launched %d requests, want 1", len(*requests))
	}

	req := (*requests)[0]
	if req.DocumentID != "doc-1" {
		t.Errorf("DocumentID = %q, want doc-1", req.DocumentID)
	}
	if req.Turn != ctrl.Turn() {
		t.Errorf("request turn %d != controller turn %d", req.Turn, ctrl.Turn())
	}
	if len(req.History) != 1 || req.History[0].Role != "user" {
		t.Errorf("history = %+v, want single user message", req.History)
	}
}

func TestStartTurnRejectsWhileBusy(t *testing.T) {
	ctrl, _, requests := newTestController(t)

	ctrl.StartTurn("first")
	if ctrl.StartTurn("second") {
		t.Error("turn started while another was in flight")
	}
	if len(*requests) != 1 {
		t.Errorf("launched %d requests, want 1", len(*requests))
	}
}

func TestStreamDeliversFragments(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	ctrl.StartTurn("question")
	turn := ctrl.Turn()

	ctrl.HandleStart(StreamStartMsg{Turn: turn, DocumentID: "doc-1"})
	if ctrl.Phase() != PhaseStreaming {
		t.Fatalf("phase = %v, want %v", ctrl.Phase(), PhaseStreaming)
	}

	ctrl.HandleFragment(StreamFragmentMsg{Turn: turn, DocumentID: "doc-1", Fragment: "The paper ", IsFirst: true})
	ctrl.HandleFragment(StreamFragmentMsg{Turn: turn, DocumentID: "doc-1", Fragment: "covers X."})
	settle(ctrl, turn, "doc-1")

	messages := store.Messages()
	if len(messages) != 2 {
		t.Fatalf("history has %d messages, want 2", len(messages))
	}
	reply := messages[1]
	if reply.Role != model.RoleAssistant {
		t.Errorf("reply role = %v, want assistant", reply.Role)
	}
	if reply.IsStreaming {
		t.Error("reply still marked streaming after completion")
	}
	if got := reply.DisplayContent(); got != "The paper covers X." {
		t.Errorf("reply content = %q", got)
	}
	if ctrl.Phase() != PhaseSettled {
		t.Errorf("phase = %v, want %v", ctrl.Phase(), PhaseSettled)
	}
	if store.IsLoading().Chat {
		t.Error("chat loading flag still set after completion")
	}
}

func TestStaleStreamNeverLandsInNewDocument(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	ctrl.StartTurn("about doc one")
	oldTurn := ctrl.Turn()
	ctrl.HandleStart(StreamStartMsg{Turn: oldTurn, DocumentID: "doc-1"})

	// Switch documents mid-stream, the way the app root does it.
	doc2 := &model.Document{ID: "doc-2", Filename: "other.pdf"}
	store.AddDocument(doc2)
	store.SetCurrentDocument(doc2)
	store.ResetDocumentState()
	ctrl.ResetForDocument()

	// Late deliveries from the dying stream must be dropped.
	ctrl.HandleFragment(StreamFragmentMsg{Turn: oldTurn, DocumentID: "doc-1", Fragment: "stale text", IsFirst: true})
	ctrl.HandleComplete(StreamCompleteMsg{Turn: oldTurn, DocumentID: "doc-1"})
	ctrl.HandleError(StreamErrorMsg{Turn: oldTurn, DocumentID: "doc-1", Err: errors.New("dead")})

	if len(store.Messages()) != 0 {
		t.Fatalf("stale stream wrote %d messages into the new document", len(store.Messages()))
	}
	if ctrl.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want %v", ctrl.Phase(), PhaseIdle)
	}
}

func TestStaleFragmentDroppedAfterSameDocumentCancel(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	ctrl.StartTurn("question")
	oldTurn := ctrl.Turn()
	ctrl.HandleStart(StreamStartMsg{Turn: oldTurn, DocumentID: "doc-1"})
	ctrl.Cancel()

	ctrl.HandleFragment(StreamFragmentMsg{Turn: oldTurn, DocumentID: "doc-1", Fragment: "after cancel", IsFirst: true})

	// Only the user message survives; the orphaned fragment is ignored.
	if len(store.Messages()) != 1 {
		t.Fatalf("history has %d messages, want 1", len(store.Messages()))
	}
}

func TestCancelKeepsPartialContent(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	ctrl.StartTurn("question")
	turn := ctrl.Turn()
	ctrl.HandleStart(StreamStartMsg{Turn: turn, DocumentID: "doc-1"})
	ctrl.HandleFragment(StreamFragmentMsg{Turn: turn, DocumentID: "doc-1", Fragment: "partial answer", IsFirst: true})

	ctrl.Cancel()

	messages := store.Messages()
	if len(messages) != 2 {
		t.Fatalf("history has %d messages, want 2", len(messages))
	}
	reply := messages[1]
	if reply.IsStreaming {
		t.Error("cancelled reply not finalized")
	}
	if got := reply.DisplayContent(); got != "partial answer" {
		t.Errorf("partial content = %q", got)
	}
	if ctrl.Busy() {
		t.Error("controller still busy after cancel")
	}
	if store.IsLoading().Chat {
		t.Error("chat loading flag still set after cancel")
	}
}

func TestFailedStreamLeavesHistoryUntouched(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	ctrl.StartTurn("question")
	turn := ctrl.Turn()
	ctrl.HandleStart(StreamStartMsg{Turn: turn, DocumentID: "doc-1"})
	ctrl.HandleFragment(StreamFragmentMsg{Turn: turn, DocumentID: "doc-1", Fragment: "half a rep", IsFirst: true})

	cmd := ctrl.HandleError(StreamErrorMsg{Turn: turn, DocumentID: "doc-1", Err: errors.New("backend down")})
	if cmd == nil {
		t.Fatal("HandleError returned no error command")
	}

	// The partial assistant reply is gone; the question remains for retry.
	messages := store.Messages()
	if len(messages) != 1 {
		t.Fatalf("history has %d messages, want 1", len(messages))
	}
	if messages[0].Role != model.RoleUser {
		t.Errorf("surviving message role = %v, want user", messages[0].Role)
	}
	if ctrl.Phase() != PhaseFailed {
		t.Errorf("phase = %v, want %v", ctrl.Phase(), PhaseFailed)
	}

	errMsg, ok := cmd().(ErrorMsg)
	if !ok {
		t.Fatal("error command did not yield ErrorMsg")
	}
	if errMsg.Title == "" || errMsg.Message == "" {
		t.Errorf("empty error message: %+v", errMsg)
	}
}

func TestRegenerateReplacesLastReply(t *testing.T) {
	ctrl, store, requests := newTestController(t)

	// First full turn.
	ctrl.StartTurn("question")
	turn := ctrl.Turn()
	ctrl.HandleFragment(StreamFragmentMsg{Turn: turn, DocumentID: "doc-1", Fragment: "first answer", IsFirst: true})
	settle(ctrl, turn, "doc-1")

	// Regenerate: request history must end at the user question.
	if !ctrl.Regenerate() {
		t.Fatal("Regenerate failed")
	}
	req := (*requests)[len(*requests)-1]
	if len(req.History) != 1 || req.History[0].Role != "user" {
		t.Fatalf("regenerate history = %+v, want single user message", req.History)
	}

	turn = ctrl.Turn()
	ctrl.HandleFragment(StreamFragmentMsg{Turn: turn, DocumentID: "doc-1", Fragment: "second answer", IsFirst: true})
	settle(ctrl, turn, "doc-1")

	messages := store.Messages()
	if len(messages) != 2 {
		t.Fatalf("history has %d messages after regenerate, want 2", len(messages))
	}
	if got := messages[1].DisplayContent(); got != "second answer" {
		t.Errorf("reply = %q, want replacement, not append", got)
	}
}

func TestRegenerateIdempotentAfterFailure(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	ctrl.StartTurn("question")
	settle(ctrl, ctrl.Turn(), "doc-1")

	// Regenerate, fail, regenerate again. History shape must be stable.
	ctrl.Regenerate()
	ctrl.HandleError(StreamErrorMsg{Turn: ctrl.Turn(), DocumentID: "doc-1", Err: errors.New("timeout")})
	if len(store.Messages()) != 1 {
		t.Fatalf("history has %d messages after failed regenerate, want 1", len(store.Messages()))
	}

	if !ctrl.Regenerate() {
		t.Fatal("second Regenerate failed")
	}
	if len(store.Messages()) != 1 {
		t.Fatalf("history has %d messages, want 1", len(store.Messages()))
	}
}

func TestRegenerateWithEmptyHistory(t *testing.T) {
	ctrl, _, requests := newTestController(t)

	if ctrl.Regenerate() {
		t.Error("Regenerate succeeded with no history")
	}
	if len(*requests) != 0 {
		t.Error("Regenerate launched a request with no history")
	}
}

func TestSuggestionsIgnoredWhenStaleOrFailed(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	ctrl.StartTurn("question")
	turn := ctrl.Turn()
	settle(ctrl, turn, "doc-1")

	// Error result is dropped silently.
	ctrl.HandleSuggestions(SuggestionsMsg{Turn: turn, DocumentID: "doc-1", Err: errors.New("nope")})
	if len(store.Suggestions()) != 0 {
		t.Error("failed suggestions fetch mutated the store")
	}

	// Stale turn is dropped.
	ctrl.HandleSuggestions(SuggestionsMsg{Turn: turn - 1, DocumentID: "doc-1", Suggestions: []string{"old"}})
	if len(store.Suggestions()) != 0 {
		t.Error("stale suggestions landed in the store")
	}

	// Matching turn is stored.
	ctrl.HandleSuggestions(SuggestionsMsg{Turn: turn, DocumentID: "doc-1", Suggestions: []string{"a", "b"}})
	if got := store.Suggestions(); len(got) != 2 {
		t.Errorf("suggestions = %v, want 2 entries", got)
	}
}

func TestStartTurnClearsSuggestions(t *testing.T) {
	ctrl, store, _ := newTestController(t)

	store.SetSuggestions([]string{"leftover"})
	ctrl.StartTurn("new question")

	if len(store.Suggestions()) != 0 {
		t.Error("stale suggestions survived a new turn")
	}
}
