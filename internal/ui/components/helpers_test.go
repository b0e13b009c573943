// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "testing"

func TestToStr(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{-13, "-13"},
		{1000000, "1000000"},
	}

	for _, tt := range tests {
		if got := toStr(tt.in); got != tt.want {
			t.Errorf("toStr(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFmtNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		if got := fmtNumber(tt.in); got != tt.want {
			t.Errorf("fmtNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
