// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/history"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose bool // Whether to include metrics and the sentence timeline
	NoColor bool // Whether to disable colored output
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the reports according to the formatter's specific output format
	Format(reports []analysis.Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt", ".csv")
	FileExtension() string
}

// HistoryFormatter is implemented by formatters that can export a session history
type HistoryFormatter interface {
	FormatHistory(entries []history.Entry, summary history.Summary) (string, error)
}

// Registry holds all registered formatters
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatInfo provides metadata about a formatter for web UI integration
type FormatInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Extension     string `json:"extension"`
	MimeType      string `json:"mime_type"`
	HistoryExport bool   `json:"history_export"`
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

func lookup(format string) (Formatter, error) {
	formatter, exists := Get(format)
	if !exists {
		return nil, fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter, nil
}

// Export is a service-level function that provides unified formatting for both CLI and Web UI
func Export(format string, reports []analysis.Report, options FormatterOptions) (string, error) {
	formatter, err := lookup(format)
	if err != nil {
		return "", err
	}
	return formatter.Format(reports, options)
}

// ExportForWeb provides web-friendly export with proper MIME types and filenames
func ExportForWeb(format string, reports []analysis.Report, options FormatterOptions) (content string, mimeType string, filename string, err error) {
	content, err = Export(format, reports, options)
	if err != nil {
		return "", "", "", err
	}

	info := GetFormatInfo(format)
	return content, info.MimeType, "disinfo-scan-results" + info.Extension, nil
}

// ExportHistory renders a session history with the named formatter
func ExportHistory(format string, entries []history.Entry, summary history.Summary) (content string, mimeType string, filename string, err error) {
	formatter, err := lookup(format)
	if err != nil {
		return "", "", "", err
	}
	hf, ok := formatter.(HistoryFormatter)
	if !ok {
		return "", "", "", fmt.Errorf("format '%s' does not support history export", format)
	}

	content, err = hf.FormatHistory(entries, summary)
	if err != nil {
		return "", "", "", err
	}

	info := GetFormatInfo(format)
	filename = strings.TrimSuffix(history.ExportFilename, ".csv") + info.Extension
	return content, info.MimeType, filename, nil
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}
	_, info.HistoryExport = formatter.(HistoryFormatter)

	switch name {
	case "json":
		info.MimeType = "application/json"
	case "csv":
		info.MimeType = "text/csv"
	case "yaml":
		info.MimeType = "application/x-yaml"
	case "text":
		info.MimeType = "text/plain"
	default:
		info.MimeType = "application/octet-stream"
	}

	return info
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formats = append(formats, GetFormatInfo(name))
	}
	return formats
}
