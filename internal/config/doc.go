// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates, and persists docent configuration.
//
// Configuration is resolved in layers: built-in defaults, then
// ~/.docent/config.toml (or config.json), then DOCENT_* environment
// variables. Saves go through an atomic write so a crash mid-save never
// leaves a truncated file.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(cfg.Backend.URL)
//
// The Get and Set helpers address fields with dot notation
// ("backend.url", "features.keyword_count") for the config CLI command.
package config
