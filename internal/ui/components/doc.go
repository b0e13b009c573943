// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the docent TUI.
//
// Components are plain structs with View methods; the ones that animate
// (Spinner) follow the Bubble Tea Update/View contract so the parent model
// can forward tick messages. None of them own application state, they
// render what they are given.
package components
