// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler for the docent CLI.
//
// CLI: Comprehensive help and examples for all commands
//
// Handles "docent config" subcommands: show, get, set, path, keys.
//
// Examples:
//   docent config show
//   docent config get backend.url
//   docent config set backend.url http://localhost:9000
//   docent config set features.flashcard_count 20
//   docent config path
package cli

import (
	"fmt"
	"os"

	"github.com/docentlabs/docent/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := HandleConfigCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleConfigCommand dispatches config subcommands.
func HandleConfigCommand(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		return handleConfigPath(args)
	case "keys":
		return handleConfigKeys(args)
	default:
		return NewValidationErrorWithExample(
			"subcommand",
			args.Subcommand,
			"unknown config subcommand",
			"docent config [show|get|set|path|keys]",
		)
	}
}

// handleConfigShow displays the resolved configuration.
func handleConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		return NewJSONResponse("config show", cfg).Print()
	}

	path, _ := config.ConfigPathTOML()

	fmt.Println()
	fmt.Println(TitleStyle.Render("docent configuration"))

	fmt.Println(SectionStyle.Render("Backend"))
	fmt.Printf("  %s %s\n", RenderLabel("URL:"), ValueStyle.Render(cfg.Backend.URL))
	fmt.Printf("  %s %ds\n", RenderLabel("Timeout:"), cfg.Backend.TimeoutSecs)
	fmt.Printf("  %s %ds\n", RenderLabel("Upload timeout:"), cfg.Backend.UploadTimeoutSecs)
	fmt.Printf("  %s %d MB\n", RenderLabel("Max upload:"), cfg.Backend.MaxUploadMB)

	fmt.Println(SectionStyle.Render("Features"))
	fmt.Printf("  %s %d chars\n", RenderLabel("Summary length:"), cfg.Features.SummaryLength)
	fmt.Printf("  %s %d\n", RenderLabel("Keywords:"), cfg.Features.KeywordCount)
	fmt.Printf("  %s %d\n", RenderLabel("Flashcards:"), cfg.Features.FlashcardCount)
	fmt.Printf("  %s %v\n", RenderLabel("Suggestions:"), cfg.Features.SuggestionsEnabled)

	fmt.Println(SectionStyle.Render("Export"))
	fmt.Printf("  %s %s\n", RenderLabel("Default format:"), ValueStyle.Render(cfg.Export.DefaultFormat))
	if cfg.Export.Dir != "" {
		fmt.Printf("  %s %s\n", RenderLabel("Directory:"), ValueStyle.Render(cfg.Export.Dir))
	}

	fmt.Println(SectionStyle.Render("Watch"))
	fmt.Printf("  %s %v\n", RenderLabel("Enabled:"), cfg.Watch.Enabled)
	if cfg.Watch.Dir != "" {
		fmt.Printf("  %s %s\n", RenderLabel("Directory:"), ValueStyle.Render(cfg.Watch.Dir))
	}

	fmt.Println(SectionStyle.Render("UI"))
	fmt.Printf("  %s %s\n", RenderLabel("Theme:"), ValueStyle.Render(cfg.UI.Theme))
	fmt.Printf("  %s %v\n", RenderLabel("Markdown:"), cfg.UI.MarkdownRendering)

	fmt.Println()
	fmt.Printf("  %s %s\n", RenderLabel("Config file:"), DimStyle.Render(path))
	fmt.Println()

	return nil
}

// handleConfigGet prints a single configuration value.
func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "docent config get backend.url")
	}

	cfg := config.Global()
	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewValidationErrorWithExample(
			"key",
			args.ConfigKey,
			"unknown configuration key",
			"run 'docent config keys' to list valid keys",
		)
	}

	if args.JSON {
		return NewJSONResponse("config get", map[string]interface{}{
			"key":   args.ConfigKey,
			"value": value,
		}).Print()
	}

	fmt.Printf("%v\n", value)
	return nil
}

// handleConfigSet sets a value, validates the result, and saves it.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "docent config set backend.url http://localhost:9000")
	}

	// Work on a copy so a bad value never corrupts the live config
	cfg := config.Global().Clone()

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return WrapError(err, "resulting configuration is invalid")
	}

	path, err := config.ConfigPathTOML()
	if err != nil {
		return WrapError(err, "cannot resolve config path")
	}

	if err := config.SaveTOML(cfg, path); err != nil {
		return WrapError(err, "failed to save configuration")
	}

	config.SetGlobal(cfg)

	if args.JSON {
		return NewJSONResponse("config set", map[string]string{
			"key":   args.ConfigKey,
			"value": args.ConfigVal,
			"path":  path,
		}).Print()
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	return nil
}

// handleConfigPath prints the config file path.
func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return WrapError(err, "cannot resolve config path")
	}

	if args.JSON {
		return NewJSONResponse("config path", map[string]string{"path": path}).Print()
	}

	fmt.Println(path)
	return nil
}

// handleConfigKeys lists all settable configuration keys.
func handleConfigKeys(args Args) error {
	keys := config.GetAllKeys()

	if args.JSON {
		return NewJSONResponse("config keys", keys).Print()
	}

	cfg := config.Global()
	for _, key := range keys {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %s = %v\n", HighlightStyle.Render(key), value)
	}
	return nil
}
