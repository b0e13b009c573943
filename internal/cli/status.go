// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler for the docent CLI.
//
// CLI: Comprehensive help and examples for all commands
//
// Handles "docent status", which reports backend reachability and
// document library statistics.
//
// Command: status
// Short:   Show backend and library status
// Aliases: s
//
// Examples:
//   docent status
//   docent status --json
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docentlabs/docent/internal/config"
)

// HandleStatus handles the "status" command.
func HandleStatus(args Args) {
	if err := HandleStatusCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleStatusCommand collects status information and displays it.
func HandleStatusCommand(args Args) error {
	cfg := config.Global()
	client := buildClient(args)

	data := StatusData{
		Backend: StatusBackendInfo{
			URL: client.GetConfig().BaseURL,
		},
		Config: StatusConfigInfo{
			TimeoutSecs:  cfg.Backend.TimeoutSecs,
			MaxUploadMB:  cfg.Backend.MaxUploadMB,
			ExportFormat: cfg.Export.DefaultFormat,
			WatchEnabled: cfg.Watch.Enabled,
			WatchDir:     cfg.Watch.Dir,
		},
	}
	if path, err := config.ConfigPathTOML(); err == nil {
		data.Config.Path = path
	}

	// Probe the backend
	healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	start := time.Now()
	err := client.Health(healthCtx)
	cancel()

	data.Backend.LatencyMs = time.Since(start).Milliseconds()
	data.Backend.Reachable = err == nil
	if err != nil {
		data.Backend.Error = err.Error()
	}

	// Library stats only make sense when the backend answers
	if data.Backend.Reachable {
		listCtx, cancel := commandContext()
		docs, listErr := client.ListDocuments(listCtx)
		cancel()
		if listErr == nil {
			data.Documents.Count = len(docs)
			for _, d := range docs {
				data.Documents.TotalBytes += d.FileSize
			}
			// List order is newest-first from resolveDocument's perspective,
			// but the backend does not guarantee it, so scan for the latest.
			var latest time.Time
			for _, d := range docs {
				if t := d.CreatedTime(); t.After(latest) {
					latest = t
					data.Documents.Latest = d.Filename
				}
			}
		}
	}

	if args.JSON {
		resp := NewJSONResponse("status", data)
		return resp.Print()
	}

	displayStatus(data)
	return nil
}

// displayStatus renders status information for human consumption.
func displayStatus(data StatusData) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("docent status"))

	fmt.Println(SectionStyle.Render("Backend"))
	fmt.Printf("  %s %s\n", RenderLabel("URL:"), ValueStyle.Render(data.Backend.URL))
	if data.Backend.Reachable {
		fmt.Printf("  %s %s (%dms)\n", RenderLabel("Connection:"), RenderStatus("ok"), data.Backend.LatencyMs)
	} else {
		fmt.Printf("  %s %s\n", RenderLabel("Connection:"), RenderStatus("fail"))
		fmt.Printf("  %s %s\n", RenderLabel("Error:"), ErrorStyle.Render(data.Backend.Error))
	}

	if data.Backend.Reachable {
		fmt.Println(SectionStyle.Render("Library"))
		fmt.Printf("  %s %d\n", RenderLabel("Documents:"), data.Documents.Count)
		fmt.Printf("  %s %s\n", RenderLabel("Total size:"), ValueStyle.Render(formatBytes(data.Documents.TotalBytes)))
		if data.Documents.Latest != "" {
			fmt.Printf("  %s %s\n", RenderLabel("Latest upload:"), ValueStyle.Render(data.Documents.Latest))
		}
	}

	fmt.Println(SectionStyle.Render("Configuration"))
	fmt.Printf("  %s %s\n", RenderLabel("Config file:"), DimStyle.Render(data.Config.Path))
	fmt.Printf("  %s %ds\n", RenderLabel("Request timeout:"), data.Config.TimeoutSecs)
	fmt.Printf("  %s %d MB\n", RenderLabel("Max upload:"), data.Config.MaxUploadMB)
	fmt.Printf("  %s %s\n", RenderLabel("Export format:"), ValueStyle.Render(data.Config.ExportFormat))
	if data.Config.WatchEnabled {
		fmt.Printf("  %s %s\n", RenderLabel("Watch dir:"), ValueStyle.Render(data.Config.WatchDir))
	}

	fmt.Println()
}
