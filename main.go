// docent - A terminal companion for studying PDF documents.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/cli"
	"github.com/docentlabs/docent/internal/config"
	"github.com/docentlabs/docent/internal/model"
	"github.com/docentlabs/docent/internal/session"
	"github.com/docentlabs/docent/internal/ui"
	"github.com/docentlabs/docent/internal/ui/chat"
	"github.com/docentlabs/docent/internal/ui/panels"
	"github.com/docentlabs/docent/internal/ui/styles"
	"github.com/docentlabs/docent/internal/watch"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate

	command, args := cli.Parse()

	switch command {
	case cli.CmdAsk:
		cli.HandleAsk(args)

	case cli.CmdChat:
		cli.HandleChat(args)

	case cli.CmdStatus:
		cli.HandleStatus(args)

	case cli.CmdUpload:
		cli.HandleUpload(args)

	case cli.CmdDocs:
		cli.HandleDocs(args)

	case cli.CmdConfig:
		cli.HandleConfig(args)

	case cli.CmdExport:
		cli.HandleExport(args)

	case cli.CmdWatch:
		cli.HandleWatch(args)

	case cli.CmdSearch:
		cli.HandleSearch(args)

	case cli.CmdVersion:
		cli.HandleVersionWithJSON(args)

	case cli.CmdHelp:
		cli.HandleHelp()

	case cli.CmdUnknown:
		cli.HandleUnknown(args)

	default:
		runTUI(args)
	}
}

// =============================================================================
// TUI LAUNCH
// =============================================================================

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) {
	if err := cli.RequiresTTY("the docent interface"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Hint: use 'docent ask' or 'docent docs' for scripted access.\n")
		os.Exit(cli.ExitUsageError)
	}

	cfg := config.Global()
	client := buildAPIClient(cfg, args)

	theme := styles.NewTheme()
	store := session.NewStore()

	// The stream runner needs the program and the controller needs a
	// launcher, so the launcher resolves the runner late.
	var runner *chat.StreamRunner
	controller := chat.NewController(store, client, func(req chat.StreamRequest) {
		if runner != nil {
			runner.Launch(req)
		}
	})

	app := ui.NewAppWithConfig(theme, store, client, controller, cfg)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	runner = chat.NewStreamRunner(p, client)

	watcher := startWatcher(cfg, client, p)
	if watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docent: %v\n", err)
		os.Exit(1)
	}
}

// buildAPIClient creates the backend client from config, with the
// --backend flag taking precedence over the configured URL.
func buildAPIClient(cfg *config.Config, args cli.Args) *api.Client {
	clientCfg := &api.ClientConfig{
		BaseURL:       cfg.Backend.URL,
		Timeout:       time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		UploadTimeout: time.Duration(cfg.Backend.UploadTimeoutSecs) * time.Second,
		MaxUploadSize: int64(cfg.Backend.MaxUploadMB) * 1024 * 1024,
	}
	if args.Backend != "" {
		clientCfg.BaseURL = args.Backend
	}
	return api.NewClientWithConfig(clientCfg)
}

// startWatcher launches the configured drop-folder watcher, if any.
// Uploads and failures surface inside the TUI through program.Send.
func startWatcher(cfg *config.Config, client *api.Client, p *tea.Program) *watch.Watcher {
	if !cfg.Watch.Enabled || cfg.Watch.Dir == "" {
		return nil
	}

	uploadFn := func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		uctx, cancel := context.WithTimeout(ctx,
			time.Duration(cfg.Backend.UploadTimeoutSecs)*time.Second)
		defer cancel()

		resp, err := client.UploadDocument(uctx, filepath.Base(path), data)
		if err != nil {
			return err
		}
		p.Send(panels.DocumentUploadedMsg{
			Document: &model.Document{
				ID:         resp.ID,
				Filename:   resp.Filename,
				FileSize:   resp.FileSize,
				PageCount:  resp.PageCount,
				ChunkCount: resp.ChunkCount,
				CreatedAt:  resp.CreatedTime(),
			},
			Filename: resp.Filename,
		})
		return nil
	}

	w, err := watch.New(cfg.Watch.Dir, watch.DefaultDebounce, uploadFn)
	if err != nil {
		// A bad watch dir should not block the TUI.
		fmt.Fprintf(os.Stderr, "Warning: watch disabled: %v\n", err)
		return nil
	}
	w.OnResult = func(r watch.Result) {
		if r.Err != nil {
			p.Send(panels.ErrorMsg{
				Title:   "Watch upload",
				Message: filepath.Base(r.Path) + ": " + r.Err.Error(),
			})
		}
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: watch disabled: %v\n", err)
		w.Close()
		return nil
	}
	return w
}
