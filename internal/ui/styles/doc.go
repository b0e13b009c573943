// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the docent TUI.
//
// All colors are lipgloss.AdaptiveColor pairs so light and dark terminals
// both get readable output without configuration. The Theme struct bundles
// every styled component the UI renders; construct it once with NewTheme
// and pass it down.
//
// Accessibility is built in: status output always pairs a shape indicator
// ([OK], [X], [!], [i]) with its color, and the high-contrast color pairs
// remain distinguishable for common forms of color blindness.
package styles
