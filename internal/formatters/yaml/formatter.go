// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/formatters"
	"disinfo-scan/internal/formatters/shared"
	"disinfo-scan/internal/history"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, 100% compatible with JSON structure"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(reports []analysis.Report, options formatters.FormatterOptions) (string, error) {
	// Same conversion as the JSON formatter
	return marshal(shared.ConvertReportsToJSONFormat(reports, options))
}

// FormatHistory renders the history summary followed by every entry
func (f *Formatter) FormatHistory(entries []history.Entry, summary history.Summary) (string, error) {
	return marshal(shared.NewHistoryResponse(entries, summary))
}

func marshal(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
