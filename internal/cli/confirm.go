// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Unified confirmation handling for docent CLI commands.
//
// USABILITY: TTY detection for proper terminal handling
//
// One confirmation pattern everywhere:
//   1. If --confirm flag is present, proceed without prompting
//   2. If --json mode, require --confirm flag (no interactive prompts in JSON mode)
//   3. If stdin is not a TTY, require --confirm flag (can't prompt)
//   4. Otherwise, show interactive prompt for confirmation

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ConfirmationOptions provides a self-documenting API for confirmation functions.
type ConfirmationOptions struct {
	// ConfirmFlag indicates if --confirm flag was passed (skip interactive prompt)
	ConfirmFlag bool
	// JSONMode indicates if --json flag was passed (requires ConfirmFlag for destructive actions)
	JSONMode bool
}

// RequireConfirmation checks if the user has confirmed a destructive action.
//
// Example:
//
//	confirmed, err := RequireConfirmation("delete this document", ConfirmationOptions{
//	    ConfirmFlag: confirmFlag,
//	    JSONMode:    jsonMode,
//	})
//	if err != nil {
//	    return err
//	}
//	if !confirmed {
//	    ShowCancellationMessage()
//	    return nil
//	}
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}

	// In JSON mode, --confirm flag is required (no interactive prompts)
	if opts.JSONMode {
		return false, fmt.Errorf("confirmation required: use --confirm flag for destructive actions in JSON mode")
	}

	// Can't prompt if stdin is not a TTY (piped input, cron jobs, CI)
	if !IsTTY() {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal; use --confirm flag")
	}

	fmt.Println()
	fmt.Printf("Are you sure you want to %s? [y/N]: ", action)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(input))
	confirmed := response == "y" || response == "yes"

	return confirmed, nil
}

// RequireConfirmationWithDetails is like RequireConfirmation but shows
// additional details before prompting.
func RequireConfirmationWithDetails(action string, details map[string]string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}

	if opts.JSONMode {
		return false, fmt.Errorf("confirmation required: use --confirm flag for destructive actions in JSON mode")
	}

	if !IsTTY() {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal; use --confirm flag")
	}

	fmt.Println()
	fmt.Println(WarningStyle.Render("WARNING: Destructive Action"))
	fmt.Println(RenderSeparator(50))
	fmt.Println()

	for label, value := range details {
		fmt.Printf("  %s%s\n", RenderLabel(label+":", 20), value)
	}

	fmt.Println()
	fmt.Println(ErrorStyle.Render("This action cannot be undone."))
	fmt.Println()
	fmt.Printf("Are you sure you want to %s? [y/N]: ", action)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(input))
	confirmed := response == "y" || response == "yes"

	return confirmed, nil
}

// ShowCancellationMessage displays a standard cancellation message.
// Use this after RequireConfirmation returns false.
func ShowCancellationMessage() {
	fmt.Println()
	fmt.Println(DimStyle.Render("Cancelled."))
	fmt.Println()
}

// PromptYesNo prompts the user with a yes/no question.
// Returns false if stdin is not a TTY (cannot prompt).
func PromptYesNo(question string) bool {
	if !IsTTY() {
		return false
	}

	fmt.Printf("%s [y/N]: ", question)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes"
}
