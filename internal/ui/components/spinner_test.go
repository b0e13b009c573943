// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestNewSpinnerDefaults(t *testing.T) {
	s := NewSpinner()
	if s.IsActive() {
		t.Error("new spinner should be inactive")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}
}

func TestSpinnerStartStop(t *testing.T) {
	s := NewSpinner()

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}
	if s.View() == "" {
		t.Error("active spinner should render")
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestSpinnerMessage(t *testing.T) {
	s := NewThinkingSpinner()
	s.Start()
	if !strings.Contains(s.View(), "Thinking") {
		t.Error("thinking spinner should show its message")
	}

	s.SetMessage("Summarizing")
	if !strings.Contains(s.View(), "Summarizing") {
		t.Error("SetMessage should change displayed text")
	}
}

func TestSpinnerDetail(t *testing.T) {
	s := NewUploadSpinner()
	s.Start()
	s.SetDetail("paper.pdf (2.0 MB)")
	if !strings.Contains(s.View(), "paper.pdf") {
		t.Error("spinner should show detail text")
	}
}

func TestGeneratingSpinner(t *testing.T) {
	s := NewGeneratingSpinner("flashcards")
	s.Start()
	if !strings.Contains(s.View(), "Generating flashcards") {
		t.Error("generating spinner should name what it generates")
	}
}

func TestGetElapsed(t *testing.T) {
	s := NewSpinner()
	if s.GetElapsed() != 0 {
		t.Error("elapsed should be zero before Start")
	}
	s.Start()
	if s.GetElapsed() < 0 {
		t.Error("elapsed should be non-negative after Start")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m0s"},
		{125 * time.Second, "2m5s"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
