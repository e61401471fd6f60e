// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ExportFilename is the download name used for CSV history exports
const ExportFilename = "pattern_analysis_data.csv"

var csvHeaders = []string{
	"id",
	"timestamp",
	"source",
	"text_preview",
	"overall_risk",
	"authenticity_score",
	"risk_tier",
	"pattern_count",
	"patterns_detected",
	"word_count",
}

// WriteCSV writes one row per entry, oldest first
func WriteCSV(w io.Writer, entries []Entry) error {
	if _, err := io.WriteString(w, strings.Join(csvHeaders, ",")+"\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			EscapeCSVField(e.ID),
			e.Timestamp.UTC().Format(time.RFC3339),
			EscapeCSVField(e.Source),
			EscapeCSVField(e.TextPreview),
			strconv.FormatFloat(e.OverallRisk, 'f', 3, 64),
			strconv.FormatFloat(e.Authenticity, 'f', 3, 64),
			string(e.Tier),
			strconv.Itoa(e.PatternCount),
			EscapeCSVField(strings.Join(e.PatternIDs, ";")),
			strconv.Itoa(e.WordCount),
		}
		if _, err := io.WriteString(w, strings.Join(row, ",")+"\n"); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}

// EscapeCSVField quotes a field when needed and neutralizes spreadsheet formulas
func EscapeCSVField(field string) string {
	field = sanitizeFormulaInjection(field)

	if strings.ContainsAny(field, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
	}
	return field
}

// sanitizeFormulaInjection prefixes fields a spreadsheet would evaluate
func sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// FormatAge renders the entry timestamp relative to now, e.g. "3 minutes ago"
func FormatAge(e Entry, now time.Time) string {
	return humanize.RelTime(e.Timestamp, now, "ago", "from now")
}
