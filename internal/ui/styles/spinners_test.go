// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"BrailleSpinner", BrailleSpinner},
		{"DotsSpinner", DotsSpinner},
		{"LineSpinner", LineSpinner},
		{"BlockSpinner", BlockSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
			if s.config.Duration() <= 0 || s.config.Duration() > time.Second {
				t.Errorf("%s Duration() = %v, want within (0, 1s]", s.name, s.config.Duration())
			}
		})
	}
}

func TestFrameAt(t *testing.T) {
	s := LineSpinner
	if got := s.FrameAt(0); got != "|" {
		t.Errorf("FrameAt(0) = %q, want |", got)
	}
	// Wraps around the frame list.
	if got := s.FrameAt(len(s.Frames)); got != "|" {
		t.Errorf("FrameAt(len) = %q, want |", got)
	}

	empty := SpinnerConfig{FPS: 10}
	if got := empty.FrameAt(3); got != "" {
		t.Errorf("FrameAt on empty frames = %q, want empty", got)
	}
}

// =============================================================================
// PROGRESS BAR TESTS
// =============================================================================

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		percent float64
	}{
		{"empty", 10, 0},
		{"half", 10, 50},
		{"full", 10, 100},
		{"over", 10, 150},
		{"negative", 10, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := RenderProgressBar(tt.width, tt.percent)
			if len(bar) != tt.width {
				t.Errorf("bar length = %d, want %d", len(bar), tt.width)
			}
		})
	}
}

func TestRenderProgressBarZeroWidth(t *testing.T) {
	if bar := RenderProgressBar(0, 50); bar != "" {
		t.Errorf("zero width bar = %q, want empty", bar)
	}
}

func TestRenderProgressBarFull(t *testing.T) {
	bar := RenderProgressBar(8, 100)
	if bar != strings.Repeat(ProgressFull, 8) {
		t.Errorf("full bar = %q", bar)
	}
}
