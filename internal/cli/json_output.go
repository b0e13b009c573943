// json_output.go - JSON output support for scripted use of the docent CLI.
//
// Provides a standardized JSON output format for all CLI commands so
// output can be piped into jq or other tooling.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
// Human-readable messages should go to stderr when JSON mode is enabled.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// PrintCompact outputs the JSON response without indentation.
func (r *JSONResponse) PrintCompact() error {
	return json.NewEncoder(os.Stdout).Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// OutputJSON outputs either JSON or runs a normal handler.
// If jsonMode is true, it outputs JSON and handles errors. Otherwise it runs the handler.
func OutputJSON(jsonMode bool, command string, handler func() (interface{}, error)) error {
	if !jsonMode {
		_, err := handler()
		return err
	}

	data, err := handler()
	if err != nil {
		resp := NewJSONErrorResponse(command, err)
		resp.Print()
		return err
	}

	resp := NewJSONResponse(command, data)
	return resp.Print()
}

// StderrPrint prints a message to stderr (for human-readable output in JSON mode).
func StderrPrint(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// StderrPrintln prints a line to stderr (for human-readable output in JSON mode).
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// StatusData represents the data returned by the status command.
type StatusData struct {
	Backend   StatusBackendInfo  `json:"backend"`
	Documents StatusDocumentInfo `json:"documents"`
	Config    StatusConfigInfo   `json:"config"`
}

// StatusBackendInfo contains backend connectivity information.
type StatusBackendInfo struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

// StatusDocumentInfo contains document library statistics.
type StatusDocumentInfo struct {
	Count      int    `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
	Latest     string `json:"latest,omitempty"`
}

// StatusConfigInfo contains resolved configuration for status display.
type StatusConfigInfo struct {
	Path          string `json:"config_path"`
	TimeoutSecs   int    `json:"timeout_secs"`
	MaxUploadMB   int    `json:"max_upload_mb"`
	ExportFormat  string `json:"export_format"`
	WatchEnabled  bool   `json:"watch_enabled"`
	WatchDir      string `json:"watch_dir,omitempty"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// AskData represents the data returned by the ask command.
type AskData struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	DurationMs int64  `json:"duration_ms"`
}

// DocListData represents the data returned by the docs list command.
type DocListData struct {
	Documents []DocListEntry `json:"documents"`
	Count     int            `json:"count"`
}

// DocListEntry is a single document row in docs list output.
type DocListEntry struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	FileSize  int64  `json:"file_size"`
	PageCount int    `json:"page_count"`
	CreatedAt string `json:"created_at"`
}

// UploadData represents the data returned by the upload command.
type UploadData struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	FileSize  int64  `json:"file_size"`
	PageCount int    `json:"page_count"`
}
