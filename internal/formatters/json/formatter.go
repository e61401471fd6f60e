// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/formatters"
	"disinfo-scan/internal/formatters/shared"
	"disinfo-scan/internal/history"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(reports []analysis.Report, options formatters.FormatterOptions) (string, error) {
	return marshal(shared.ConvertReportsToJSONFormat(reports, options))
}

// FormatHistory renders the history summary followed by every entry
func (f *Formatter) FormatHistory(entries []history.Entry, summary history.Summary) (string, error) {
	return marshal(shared.NewHistoryResponse(entries, summary))
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
