// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// backend.go - Shared backend client construction and document resolution
// for CLI commands.
package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/docentlabs/docent/internal/api"
	"github.com/docentlabs/docent/internal/config"
)

// buildClient creates a backend client from the resolved configuration.
// A --backend flag overrides the configured URL for this invocation only.
func buildClient(args Args) *api.Client {
	cfg := config.Global()

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

// resolveDocument finds the target document for a command.
//
// With an explicit ID, matches the full ID first, then a unique prefix so
// users can type the short form shown in docs list. With no ID, returns
// the most recently uploaded document.
func resolveDocument(ctx context.Context, client *api.Client, docID string) (*api.DocumentResponse, error) {
	docs, err := client.ListDocuments(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list documents")
	}

	if len(docs) == 0 {
		return nil, NewNotFoundError("document", "no documents uploaded yet")
	}

	if docID == "" {
		// Latest upload wins
		sort.Slice(docs, func(i, j int) bool {
			return docs[i].CreatedTime().After(docs[j].CreatedTime())
		})
		return &docs[0], nil
	}

	for i := range docs {
		if docs[i].ID == docID {
			return &docs[i], nil
		}
	}

	// Prefix match, must be unambiguous
	var match *api.DocumentResponse
	for i := range docs {
		if strings.HasPrefix(docs[i].ID, docID) {
			if match != nil {
				return nil, fmt.Errorf("document ID %q is ambiguous, use a longer prefix", docID)
			}
			match = &docs[i]
		}
	}
	if match != nil {
		return match, nil
	}

	return nil, NewNotFoundError("document", docID)
}

// commandContext returns a context with the configured request timeout.
func commandContext() (context.Context, context.CancelFunc) {
	cfg := config.Global()
	timeout := time.Duration(cfg.Backend.TimeoutSecs) * time.Second
	return context.WithTimeout(context.Background(), timeout)
}
