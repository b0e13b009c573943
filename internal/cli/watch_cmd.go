// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// watch_cmd.go - Directory watch command for the docent CLI.
//
// Handles "docent watch [DIR]": uploads PDFs that appear in a folder,
// either in one pass (--once) or continuously until interrupted.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/docentlabs/docent/internal/config"
	"github.com/docentlabs/docent/internal/watch"
)

// WatchData is the JSON payload for a one-shot watch scan.
type WatchData struct {
	Dir      string   `json:"dir"`
	Uploaded []string `json:"uploaded"`
	Failed   []string `json:"failed"`
}

// HandleWatch processes the watch command and exits on error.
func HandleWatch(args Args) {
	if err := HandleWatchCommand(args); err != nil {
		DisplayError(err, args.JSON)
		os.Exit(GetExitCode(err))
	}
}

// HandleWatchCommand watches a directory and uploads PDFs dropped
// into it. The directory comes from the positional argument, then
// the config, in that order.
func HandleWatchCommand(args Args) error {
	cfg := config.Global()

	dir := args.Output
	if dir == "" {
		dir = cfg.Watch.Dir
	}
	if dir == "" {
		return NewValidationErrorWithExample("directory", "",
			"no watch directory given and watch.dir is not configured",
			"docent watch ~/papers/inbox")
	}

	client := buildClient(args)

	// Probe the backend up front; a watcher pointed at a dead backend
	// would fail every upload.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := client.Health(probeCtx)
	probeCancel()
	if err != nil {
		return NewCommandError("watch", "connect",
			fmt.Sprintf("backend at %s is unreachable", client.GetConfig().BaseURL), err)
	}

	uploadFn := func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		uctx, cancel := context.WithTimeout(ctx,
			time.Duration(cfg.Backend.UploadTimeoutSecs)*time.Second)
		defer cancel()
		_, err = client.UploadDocument(uctx, filepath.Base(path), data)
		return err
	}

	w, err := watch.New(dir, watch.DefaultDebounce, uploadFn)
	if err != nil {
		return NewCommandError("watch", "open", err.Error(), err)
	}
	defer w.Close()

	if args.Options["once"] == "true" {
		return runWatchOnce(args, w)
	}
	return runWatchLoop(args, w)
}

// runWatchOnce does a single sweep of the directory and reports what
// happened.
func runWatchOnce(args Args, w *watch.Watcher) error {
	data := WatchData{Dir: w.Dir(), Uploaded: []string{}, Failed: []string{}}

	w.OnResult = func(r watch.Result) {
		name := filepath.Base(r.Path)
		if r.Err != nil {
			data.Failed = append(data.Failed, name)
			if !args.JSON {
				fmt.Printf("%s %s: %v\n", ErrorStyle.Render("[FAIL]"), name, r.Err)
			}
			return
		}
		data.Uploaded = append(data.Uploaded, name)
		if !args.JSON {
			fmt.Printf("%s Uploaded %s\n", SuccessStyle.Render("[OK]"), HighlightStyle.Render(name))
		}
	}

	if err := w.ScanOnce(context.Background()); err != nil {
		return NewCommandError("watch", "scan", err.Error(), err)
	}

	if args.JSON {
		return NewJSONResponse("watch", data).Print()
	}
	if len(data.Uploaded) == 0 && len(data.Failed) == 0 {
		fmt.Println(DimStyle.Render("No new PDFs found."))
	}
	if len(data.Failed) > 0 {
		return fmt.Errorf("%d upload(s) failed", len(data.Failed))
	}
	return nil
}

// runWatchLoop sweeps once, then watches until Ctrl+C.
func runWatchLoop(args Args, w *watch.Watcher) error {
	if args.JSON {
		return NewValidationError("--json", "",
			"continuous watch has no JSON output; use --once for a scriptable scan")
	}

	w.OnResult = func(r watch.Result) {
		name := filepath.Base(r.Path)
		if r.Err != nil {
			fmt.Printf("%s %s: %v\n", ErrorStyle.Render("[FAIL]"), name, r.Err)
			return
		}
		fmt.Printf("%s Uploaded %s\n", SuccessStyle.Render("[OK]"), HighlightStyle.Render(name))
	}

	if err := w.ScanOnce(context.Background()); err != nil {
		return NewCommandError("watch", "scan", err.Error(), err)
	}
	if err := w.Start(); err != nil {
		return NewCommandError("watch", "start", err.Error(), err)
	}

	if !args.Quiet {
		fmt.Printf("Watching %s for PDFs. Press Ctrl+C to stop.\n", HighlightStyle.Render(w.Dir()))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if !args.Quiet {
		fmt.Println("\nStopped watching.")
	}
	return nil
}
