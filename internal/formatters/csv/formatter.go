// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/formatters"
	"disinfo-scan/internal/history"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(reports []analysis.Report, options formatters.FormatterOptions) (string, error) {
	headers := []string{"ID", "Source", "Risk Score", "Risk Tier", "Authenticity", "Pattern Count", "Patterns", "Analyzed At"}
	if options.Verbose {
		headers = append(headers, "Words", "Sentences", "Exclamation Density", "Question Density", "All Caps Tokens", "Numeral Tokens")
	}

	csvRows := []string{strings.Join(headers, ",")}
	for _, report := range reports {
		csvRows = append(csvRows, f.formatRow(report, options))
	}

	return strings.Join(csvRows, "\n") + "\n", nil
}

// formatRow renders one report; patterns are listed as name:score pairs
func (f *Formatter) formatRow(report analysis.Report, options formatters.FormatterOptions) string {
	result := report.Result

	var patterns []string
	for _, match := range result.OrderedPatterns() {
		patterns = append(patterns, fmt.Sprintf("%s:%.2f", match.PatternID, match.RawScore))
	}

	row := []string{
		history.EscapeCSVField(report.Document.ID),
		history.EscapeCSVField(report.Document.Source),
		formatScore(result.OverallRiskScore),
		string(report.Tier),
		formatScore(result.AuthenticityScore),
		strconv.Itoa(result.PatternCount),
		history.EscapeCSVField(strings.Join(patterns, ";")),
		report.AnalyzedAt.UTC().Format(time.RFC3339),
	}

	if options.Verbose {
		m := result.Metrics
		row = append(row,
			strconv.Itoa(m.WordCount),
			strconv.Itoa(m.SentenceCount),
			formatScore(m.ExclamationDensity),
			formatScore(m.QuestionDensity),
			strconv.Itoa(m.AllCapsTokenCount),
			strconv.Itoa(m.NumeralTokenCount),
		)
	}

	return strings.Join(row, ",")
}

// FormatHistory writes the history entries as CSV
func (f *Formatter) FormatHistory(entries []history.Entry, _ history.Summary) (string, error) {
	var b strings.Builder
	if err := history.WriteCSV(&b, entries); err != nil {
		return "", err
	}
	return b.String(), nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
