// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// recorder collects upload calls for assertions.
type recorder struct {
	mu    sync.Mutex
	paths []string
	fail  bool
}

func (r *recorder) upload(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return os.ErrPermission
	}
	r.paths = append(r.paths, path)
	return nil
}

func (r *recorder) uploaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEligible(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"paper.pdf", true},
		{"PAPER.PDF", true},
		{"notes.txt", false},
		{".hidden.pdf", false},
		{"draft.pdf~", false},
		{"download.pdf.part", false},
		{"copy.pdf.tmp", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := eligible(tt.path); got != tt.want {
			t.Errorf("eligible(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewRejectsMissingDir(t *testing.T) {
	rec := &recorder{}
	if _, err := New(filepath.Join(t.TempDir(), "nope"), 0, rec.upload); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestNewRejectsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "file.pdf")
	rec := &recorder{}
	if _, err := New(path, 0, rec.upload); err == nil {
		t.Error("expected error for non-directory path")
	}
}

func TestScanOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "b.pdf")
	writeFile(t, dir, "skip.txt")
	writeFile(t, dir, ".hidden.pdf")

	rec := &recorder{}
	w, err := New(dir, 0, rec.upload)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.ScanOnce(context.Background()); err != nil {
		t.Fatalf("ScanOnce: %v", err)
	}
	if got := rec.uploaded(); len(got) != 2 {
		t.Fatalf("uploaded %v, want 2 PDFs", got)
	}
}

func TestScanOnceSkipsUploaded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")

	rec := &recorder{}
	w, err := New(dir, 0, rec.upload)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx := context.Background()
	if err := w.ScanOnce(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.ScanOnce(ctx); err != nil {
		t.Fatal(err)
	}
	if got := rec.uploaded(); len(got) != 1 {
		t.Errorf("uploaded %d times, want 1", len(got))
	}
}

func TestScanOnceRetriesFailedUpload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")

	rec := &recorder{fail: true}
	w, err := New(dir, 0, rec.upload)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var results []Result
	var mu sync.Mutex
	w.OnResult = func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	ctx := context.Background()
	if err := w.ScanOnce(ctx); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("results = %v, want one failure", results)
	}
	mu.Unlock()

	// A failed path stays eligible.
	rec.mu.Lock()
	rec.fail = false
	rec.mu.Unlock()
	if err := w.ScanOnce(ctx); err != nil {
		t.Fatal(err)
	}
	if got := rec.uploaded(); len(got) != 1 {
		t.Errorf("retry uploaded %d times, want 1", len(got))
	}
}

func TestWatchUploadsNewFile(t *testing.T) {
	dir := t.TempDir()

	rec := &recorder{}
	w, err := New(dir, 50*time.Millisecond, rec.upload)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	writeFile(t, dir, "dropped.pdf")

	deadline := time.After(5 * time.Second)
	for {
		if got := rec.uploaded(); len(got) == 1 {
			if filepath.Base(got[0]) != "dropped.pdf" {
				t.Fatalf("uploaded %q, want dropped.pdf", got[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for upload")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
