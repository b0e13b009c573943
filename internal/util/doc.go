// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared utility functions for docent.
//
// It contains rune-safe string truncation, display-width helpers built on
// go-runewidth, numeric formatting, and an atomic file writer used by the
// config and export packages.
package util
