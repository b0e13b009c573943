// suggest.go - Command suggestion for typos using Levenshtein distance.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

// validCommands is the list of known top-level commands used for
// typo suggestions. Aliases are included so near-misses on short
// forms still resolve.
var validCommands = []string{
	"tui",
	"ask",
	"chat",
	"upload",
	"docs",
	"documents",
	"status",
	"config",
	"export",
	"watch",
	"search",
	"version",
	"help",
}

// SuggestCommand returns the closest valid command to the given input,
// or empty string if nothing is close enough.
//
// The edit distance threshold scales with input length so short typos
// like "aks" still match "ask" without "x" matching everything.
func SuggestCommand(input string) string {
	if len(input) < 2 {
		return ""
	}

	var maxDistance int
	switch {
	case len(input) <= 3:
		maxDistance = 1
	case len(input) <= 8:
		maxDistance = 2
	default:
		maxDistance = 3
	}

	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, cmd := range validCommands {
		dist := levenshteinDistance(input, cmd)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = cmd
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance computes edit distance with a two-row table.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
