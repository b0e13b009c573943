// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch uploads PDFs dropped into a watched directory.
//
// The watcher observes a single flat directory. New or rewritten PDF
// files are debounced (large copies fire many write events before the
// file is complete) and then handed to an upload callback. Results go
// to an optional notification hook so both the CLI and the TUI can
// surface them their own way.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before upload.
const DefaultDebounce = 2 * time.Second

// UploadFunc uploads one PDF. The watcher never retries; a failed
// path becomes eligible again on its next write event.
type UploadFunc func(ctx context.Context, path string) error

// Result reports the outcome of one upload attempt.
type Result struct {
	Path string
	Err  error
}

// Watcher watches a directory and uploads PDFs as they appear.
type Watcher struct {
	dir      string
	upload   UploadFunc
	debounce time.Duration

	// OnResult, when set, is called after every upload attempt. It
	// runs on the watcher goroutine and must not block.
	OnResult func(Result)

	fsw    *fsnotify.Watcher
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[string]time.Time // path -> last event time
	done    map[string]time.Time // path -> modtime already uploaded
}

// New creates a watcher for dir. The directory must already exist.
func New(dir string, debounce time.Duration, upload UploadFunc) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		dir:      dir,
		upload:   upload,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]time.Time),
		done:     make(map[string]time.Time),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching. It returns once the fsnotify watch is
// registered; events are processed on background goroutines until
// Close is called.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.fsw = fsw

	go w.processEvents()
	go w.processPending()
	return nil
}

// ScanOnce uploads every PDF currently in the directory that has not
// been uploaded yet. Used for the one-shot mode and the initial sweep
// before event watching starts.
func (w *Watcher) ScanOnce(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", w.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !eligible(path) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if w.alreadyUploaded(path, info.ModTime()) {
			continue
		}
		w.attemptUpload(ctx, path, info.ModTime())
	}
	return nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !eligible(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next event re-arms us.
		}
	}
}

func (w *Watcher) processPending() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for path, last := range w.pending {
				if now.Sub(last) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				info, err := os.Stat(path)
				if err != nil || info.Size() == 0 {
					// Deleted or still empty, drop it.
					continue
				}
				if w.alreadyUploaded(path, info.ModTime()) {
					continue
				}
				w.attemptUpload(w.ctx, path, info.ModTime())
			}
		}
	}
}

func (w *Watcher) attemptUpload(ctx context.Context, path string, modTime time.Time) {
	err := w.upload(ctx, path)
	if err == nil {
		w.mu.Lock()
		w.done[path] = modTime
		w.mu.Unlock()
	}
	if w.OnResult != nil {
		w.OnResult(Result{Path: path, Err: err})
	}
}

// alreadyUploaded reports whether this exact version of the file has
// been uploaded. A newer modtime makes the file eligible again.
func (w *Watcher) alreadyUploaded(path string, modTime time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, ok := w.done[path]
	return ok && !modTime.After(prev)
}

// eligible reports whether a path looks like a finished PDF. Hidden
// files and common editor temp suffixes are skipped.
func eligible(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".tmp") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
