// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the docent application.
package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		expected string
	}{
		{"empty string", "", 10, ""},
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"negative max", "hello", -1, ""},
		{"max of 3 or less", "hello", 3, "hel"},
		{"unicode characters", "héllo wörld", 8, "héllo..."},
		{"CJK characters", "你好世界朋友", 5, "你好..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateRunes(tt.input, tt.maxRunes)
			if result != tt.expected {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q",
					tt.input, tt.maxRunes, result, tt.expected)
			}
		})
	}
}

func TestTruncateRunesNoEllipsis(t *testing.T) {
	if got := TruncateRunesNoEllipsis("hello world", 5); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if got := TruncateRunesNoEllipsis("hi", 5); got != "hi" {
		t.Errorf("expected 'hi', got %q", got)
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"abc", 3},
		{"你好", 4},  // CJK chars are double-width
		{"a你b", 4}, // mixed
	}

	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	// A CJK string of width 8 truncated to width 6 must not split a rune.
	got := TruncateWidth("你好世界", 6)
	if StringWidth(got) > 6 {
		t.Errorf("TruncateWidth produced width %d > 6: %q", StringWidth(got), got)
	}
	if got := TruncateWidth("short", 20); got != "short" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestSafeSubstring(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		start, end int
		expected   string
	}{
		{"normal range", "hello world", 0, 5, "hello"},
		{"middle range", "hello world", 6, 11, "world"},
		{"negative start", "hello", -2, 3, "hel"},
		{"end beyond length", "hello", 2, 100, "llo"},
		{"start beyond length", "hello", 10, 12, ""},
		{"inverted range", "hello", 3, 2, ""},
		{"unicode", "héllo", 1, 3, "él"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeSubstring(tt.input, tt.start, tt.end); got != tt.expected {
				t.Errorf("SafeSubstring(%q, %d, %d) = %q, want %q",
					tt.input, tt.start, tt.end, got, tt.expected)
			}
		})
	}
}

// =============================================================================
// CONVERT TESTS
// =============================================================================

func TestFormatByteSize(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatByteSize(tt.input); got != tt.expected {
			t.Errorf("FormatByteSize(%d) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIntToString(t *testing.T) {
	if got := IntToString(42); got != "42" {
		t.Errorf("expected '42', got %q", got)
	}
	if got := IntToString(-7); got != "-7" {
		t.Errorf("expected '-7', got %q", got)
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "test.txt")

	data := []byte("hello atomic world")
	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back file: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content mismatch: got %q, want %q", got, data)
	}

	// Overwrite must fully replace content.
	if err := AtomicWriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "v2" {
		t.Errorf("expected 'v2', got %q", got)
	}

	// No temp files should remain.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if e.Name() != "test.txt" {
			t.Errorf("leftover file after atomic write: %s", e.Name())
		}
	}
}
